/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jacobreesgit/music-tracking/internal/store"
)

var emailCmd = &cobra.Command{
	Use:   "email <address> [date] [date]",
	Short: "Emails a listening report",
	Long: `Sends the listening report for the given date range to the specified
address. With no dates, reports on the previous full week.`,
	Args: cobra.RangeArgs(1, 3),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := emailReport(args[0], args[1:]); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(emailCmd)

	var dryRun bool
	emailCmd.Flags().BoolVarP(&dryRun, "dry_run", "n", false, "When true, just print instead of emailing")
	viper.BindPFlag("dry_run", emailCmd.Flags().Lookup("dry_run"))
}

func emailReport(to string, dateArgs []string) error {
	calendar, err := appCalendar()
	if err != nil {
		return err
	}

	var start, end time.Time
	if len(dateArgs) > 0 {
		start, end, err = parseDateRangeFromArgs(dateArgs)
		if err != nil {
			return err
		}
	} else {
		// Previous full week.
		start = calendar.StartOfWeek(time.Now()).AddDate(0, 0, -7)
		end = calendar.EndOfWeek(start)
	}

	body := new(bytes.Buffer)
	err = withStore(func(db *store.Store) error {
		return printReport(body, db, start, end)
	})
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Listening report: %s to %s",
		start.Format("2006-01-02"), end.Format("2006-01-02"))

	if viper.GetBool("dry_run") {
		fmt.Printf("Would have sent email: \nsubject: %s\n%s\n", subject, body.String())
		return nil
	}

	if viper.GetString("sendgrid_api_key") == "" {
		return fmt.Errorf("sendgrid_api_key must be set in order to send emails")
	}

	from := mail.NewEmail("music-tracking", viper.GetString("from"))
	message := mail.NewSingleEmail(from, subject, mail.NewEmail(to, to), body.String(),
		"<pre>"+body.String()+"</pre>")
	client := sendgrid.NewSendClient(viper.GetString("sendgrid_api_key"))
	if _, err := client.Send(message); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	fmt.Printf("Sent report to %s\n", to)
	return nil
}
