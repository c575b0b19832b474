package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestFakeBackendHandlersSeeBody(t *testing.T) {
	fb := NewFakeBackend(t)
	fb.Handle(http.MethodPost, PathChat, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt string `json:"prompt"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		JSONHandler(http.StatusOK, ChatReply("re: "+req.Prompt))(w, r)
	})

	resp, err := http.Post(fb.URL+PathChat, "application/json", strings.NewReader(`{"prompt":"hello"}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)

	var reply map[string]string
	JSONUnmarshal(t, data, &reply)
	if reply["response"] != "re: hello" {
		t.Errorf("response = %q, want %q", reply["response"], "re: hello")
	}

	reqs := fb.RequestsTo(PathChat)
	if len(reqs) != 1 || string(reqs[0].Body) != `{"prompt":"hello"}` {
		t.Errorf("recorded requests = %+v", reqs)
	}
}
