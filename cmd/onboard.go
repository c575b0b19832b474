package cmd

import (
	"fmt"

	"github.com/Taycanstar/glancenote/internal"
	"github.com/spf13/cobra"
)

var (
	onboardEmail     string
	onboardFirstName string
	onboardLastName  string
	onboardBirthday  string
	onboardStudentID string
	onboardPhone     string
)

// onboardCmd represents the onboard command
var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Add your student's details to your account",
	Long: `Collect the parent profile: first and last name, the student's ID and a
phone number. Numbers without a leading "+" are sent with the +1 country
code. Missing values are prompted for.`,
	Example: `  glancenote onboard --first-name Jo --last-name Doe --student-id S-1042 --phone 5551234567`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		p := newPrompter(cmd)
		form := internal.ProfileForm{}
		fields := []struct {
			label    string
			value    string
			dst      *string
			optional bool
		}{
			{"Email", firstNonEmpty(onboardEmail, a.store.Snapshot().Email()), &form.Email, false},
			{"First name", onboardFirstName, &form.FirstName, false},
			{"Last name", onboardLastName, &form.LastName, false},
			{"Birthday (MMDDYYYY, optional)", onboardBirthday, &form.Birthday, true},
			{"Student ID", onboardStudentID, &form.StudentID, false},
			{"Phone number", onboardPhone, &form.Phone, false},
		}
		for _, f := range fields {
			read := p.LineDefault
			if f.optional {
				read = p.LineOptional
			}
			if *f.dst, err = read(f.label, f.value); err != nil {
				return err
			}
		}

		if err := form.Validate(); err != nil {
			return asUserError(err, internal.MsgRequiredFields)
		}

		info := form.Info()
		err = internal.ShowProgress(cmd.Context(), "Saving your details...", func() error {
			_, saveErr := a.store.AddProfileInfo(cmd.Context(), info)
			return saveErr
		})
		if err != nil {
			return asUserError(err, internal.MsgInvalidPhone)
		}

		out := cmd.OutOrStdout()
		internal.PrintSuccess(out, "Your details were saved")
		fmt.Fprintf(out, "  Name:       %s %s\n", info.FirstName, info.LastName)
		if birthday := internal.FormatBirthday(form.Birthday); birthday != "" {
			fmt.Fprintf(out, "  Birthday:   %s\n", birthday)
		}
		fmt.Fprintf(out, "  Student ID: %s\n", info.StudentID)
		fmt.Fprintf(out, "  Phone:      %s\n", info.PhoneNumber)
		return nil
	},
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	rootCmd.AddCommand(onboardCmd)
	onboardCmd.Flags().StringVarP(&onboardEmail, "email", "e", "", "Account email (default: the signed-in user)")
	onboardCmd.Flags().StringVar(&onboardFirstName, "first-name", "", "Parent first name")
	onboardCmd.Flags().StringVar(&onboardLastName, "last-name", "", "Parent last name")
	onboardCmd.Flags().StringVar(&onboardBirthday, "birthday", "", "Birthday as MMDDYYYY")
	onboardCmd.Flags().StringVar(&onboardStudentID, "student-id", "", "Student ID")
	onboardCmd.Flags().StringVar(&onboardPhone, "phone", "", "Phone number")
}
