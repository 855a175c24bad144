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
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/jacobreesgit/music-tracking/internal/domain"
	"github.com/jacobreesgit/music-tracking/internal/store"
)

var cfgFile string
var databasePath string
var timezone string
var weekStart string
var lastFmApiKey string
var lastFmSecret string
var lastFmUser string
var sendgridApiKey string
var fromAddress string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "music-tracking",
	Short: "Tracks and analyzes personal music listening history",
	Long: `Persists listening sessions in a local SQLite database and derives
weekly statistics, top songs and artists, totals, and listening streaks.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.music-tracking.yaml)")

	rootCmd.PersistentFlags().StringVarP(
		&databasePath, "database", "d", "./music-tracking.db", "Path to the SQLite database")
	viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("database"))

	rootCmd.PersistentFlags().StringVar(
		&timezone, "timezone", "", "IANA timezone for day and week boundaries (default is local time)")
	viper.BindPFlag("timezone", rootCmd.PersistentFlags().Lookup("timezone"))

	rootCmd.PersistentFlags().StringVar(
		&weekStart, "week_start", "monday", "First day of the canonical week")
	viper.BindPFlag("week_start", rootCmd.PersistentFlags().Lookup("week_start"))

	rootCmd.PersistentFlags().StringVar(&lastFmApiKey, "api_key", "", "last.fm API key (for the update command)")
	viper.BindPFlag("api_key", rootCmd.PersistentFlags().Lookup("api_key"))

	rootCmd.PersistentFlags().StringVar(&lastFmSecret, "secret", "", "last.fm secret (for the update command)")
	viper.BindPFlag("secret", rootCmd.PersistentFlags().Lookup("secret"))

	rootCmd.PersistentFlags().StringVarP(&lastFmUser, "user", "u", "", "last.fm username (for the update command)")
	viper.BindPFlag("user", rootCmd.PersistentFlags().Lookup("user"))

	rootCmd.PersistentFlags().StringVar(&sendgridApiKey, "sendgrid_api_key", "", "SendGrid API key (for the email command)")
	viper.BindPFlag("sendgrid_api_key", rootCmd.PersistentFlags().Lookup("sendgrid_api_key"))

	rootCmd.PersistentFlags().StringVar(&fromAddress, "from", "", "From email address (for the email command)")
	viper.BindPFlag("from", rootCmd.PersistentFlags().Lookup("from"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".music-tracking" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".music-tracking")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.Flags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}

// appCalendar builds the calendar configuration every command hands to the
// store and generator.
func appCalendar() (domain.Calendar, error) {
	calendar := domain.DefaultCalendar()

	if tz := viper.GetString("timezone"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return calendar, fmt.Errorf("loading timezone %q: %w", tz, err)
		}
		calendar.Location = loc
	}

	if ws := viper.GetString("week_start"); ws != "" {
		day, err := parseWeekday(ws)
		if err != nil {
			return calendar, err
		}
		calendar.WeekStartsOn = day
	}

	return calendar, nil
}

func parseWeekday(name string) (time.Weekday, error) {
	days := map[string]time.Weekday{
		"sunday":    time.Sunday,
		"monday":    time.Monday,
		"tuesday":   time.Tuesday,
		"wednesday": time.Wednesday,
		"thursday":  time.Thursday,
		"friday":    time.Friday,
		"saturday":  time.Saturday,
	}
	day, ok := days[strings.ToLower(name)]
	if !ok {
		return time.Sunday, fmt.Errorf("invalid week start day: %q", name)
	}
	return day, nil
}

func openStore() (*store.Store, error) {
	calendar, err := appCalendar()
	if err != nil {
		return nil, err
	}
	return store.New(viper.GetString("database"), calendar)
}
