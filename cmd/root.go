package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/khanhnv2901/apidiag/internal/diagnose"
	"github.com/khanhnv2901/apidiag/internal/probe"
	"github.com/khanhnv2901/apidiag/internal/report"
	"github.com/khanhnv2901/apidiag/internal/session"
	consts "github.com/khanhnv2901/apidiag/internal/shared/constants"
	errs "github.com/khanhnv2901/apidiag/internal/shared/errors"
)

var cfgFile string
var logger *zap.SugaredLogger
var verbose bool
var fixRequested bool
var outputPath string

var rootCmd = &cobra.Command{
	Use:   "apidiag",
	Short: "Diagnose why this machine cannot reach the DevGrid API",
	Long: `apidiag runs a bounded, read-only diagnostic against ` + consts.APIEndpoint + `:
auth configuration, DNS/TLS/API reachability, proxy and VPN interference,
and local installation state. It changes nothing and prints a prioritized
remediation plan.

Exit status is 0 when no blocking issue was found, 1 otherwise.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init config
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			viper.AddConfigPath("$HOME")
			viper.SetConfigName(".apidiag")
			viper.SetConfigType("yaml")
		}
		_ = viper.ReadInConfig()

		// init logger: probes log raw detail at debug level, visible
		// only with --verbose so normal output stays clean
		if verbose {
			l, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			logger = l.Sugar()
		} else {
			logger = zap.NewNop().Sugar()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDiagnose()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.apidiag.yaml)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "echo raw per-probe diagnostic detail")
	rootCmd.Flags().BoolVarP(&fixRequested, "fix", "f", false, "reserved auto-remediation toggle (currently performs no action)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "tee all rendered output to a file")

	// accept --outfile as an alias for --output
	rootCmd.SetGlobalNormalizationFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "outfile" {
			name = "output"
		}
		return pflag.NormalizedName(name)
	})

	rootCmd.AddCommand(versionCmd)
}

func runDiagnose() error {
	// Preflight: a platform we cannot probe aborts before any category
	// runs, exit 1.
	caps, err := probe.NewSystemCaps()
	if err != nil {
		return fmt.Errorf("cannot start diagnostics: %w", err)
	}

	out := io.Writer(os.Stdout)
	if outputPath != "" {
		f, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, consts.DefaultFilePerm)
		if err != nil {
			return fmt.Errorf("failed to open output file: %w", err)
		}
		defer f.Close()
		out = io.MultiWriter(os.Stdout, f)
	}

	home, _ := os.UserHomeDir()
	fix := diagnose.FixDisabled
	if fixRequested {
		fix = diagnose.FixRequested
		logger.Infof("--fix requested; auto-remediation is not implemented and nothing will be changed")
	}

	opts := diagnose.Options{
		ExpectedBaseURL: viper.GetString("expected_base_url"),
		ExtraBypass:     viper.GetStringSlice("extra_bypass_hosts"),
		ClientVersion:   Version,
		Home:            home,
		Fix:             fix,
	}
	if secs := viper.GetInt("api_timeout_secs"); secs > 0 {
		opts.APITimeout = secondsToDuration(secs)
	}
	if secs := viper.GetInt("dns_timeout_secs"); secs > 0 {
		opts.DNSTimeout = secondsToDuration(secs)
	}
	if secs := viper.GetInt("tls_timeout_secs"); secs > 0 {
		opts.TLSTimeout = secondsToDuration(secs)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := diagnose.NewRunner(caps, logger, opts)
	sess := session.New()
	if err := runner.Run(ctx, sess); err != nil {
		return err
	}

	// Rendering happens only on normal completion; an interrupted run
	// flushes nothing.
	if ctx.Err() != nil {
		return fmt.Errorf("diagnostics interrupted: %w", ctx.Err())
	}

	sum, err := sess.Summarize()
	if err != nil {
		return err
	}
	renderer := &report.Renderer{Out: out, Verbose: verbose}
	renderer.Render(sess, sum)
	if err := sess.MarkDone(); err != nil {
		return err
	}

	if !sum.OK {
		return errs.ErrIssuesFound
	}
	return nil
}

// secondsToDuration converts a config-file timeout in whole seconds.
func secondsToDuration(secs int) time.Duration {
	return time.Duration(secs) * time.Second
}
