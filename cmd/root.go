// Package cmd implements the CLI using the cobra framework.
package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/netkestrel/pcapedit/internal/config"
	"github.com/netkestrel/pcapedit/internal/edit"
	"github.com/netkestrel/pcapedit/internal/log"
	"github.com/netkestrel/pcapedit/internal/pipeline"
)

// Exit codes. Bad arguments and file/write failures are distinguished so
// scripts can tell a usage mistake from a broken capture.
const (
	ExitOK        = 0
	ExitBadArgs   = 1
	ExitFileError = 2
)

var (
	flagConfig       string
	flagKeep         bool
	flagStartTime    string
	flagStopTime     string
	flagDedup        bool
	flagDedupWindow  int
	flagDedupTime    string
	flagNoVLAN       bool
	flagSkipRadiotap bool
	flagIgnoreBytes  int
	flagSnaplen      int
	flagAdjustLen    bool
	flagChops        []string
	flagTimeAdj      string
	flagStrictAdj    string
	flagErrProb      float64
	flagChangeOffset int
	flagSeed         int64
	flagComments     []string
	flagCommentsFile string
	flagSplitCount   int
	flagSecsPerFile  int64
	flagFormat       string
	flagEncap        string
	flagVerbose      bool
	flagLogFile      string
)

var rootCmd = &cobra.Command{
	Use:   "pcapedit [flags] <infile> <outfile> [ <packet#>[-<packet#>] ... ]",
	Short: "pcapedit - edit and sanitize capture files",
	Long:  `pcapedit edits a sequence of captured packets: it selects a subset,
chops byte regions, removes duplicates by content or time window, shifts or
reorders timestamps, and can inject random corruption for negative testing.

A single packet or a range of packets can be selected; by default the
selected packets are deleted, with -r they are kept.`,
	Version:      "0.1.0",
	Args:         cobra.MinimumNArgs(2),
	SilenceUsage: true,
	RunE:         runEdit,
}

// Execute runs the root command and maps the failure class to an exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		var fe *pipeline.FileError
		if errors.As(err, &fe) {
			return ExitFileError
		}
		return ExitBadArgs
	}
	return ExitOK
}

func init() {
	f := rootCmd.Flags()

	f.StringVar(&flagConfig, "config", "", "defaults file (yaml)")

	f.BoolVarP(&flagKeep, "keep", "r", false,
		"keep the selected packets; default is to delete them")
	f.StringVarP(&flagStartTime, "start-time", "A", "",
		"only output packets whose timestamp is after (or equal to) the given time (YYYY-MM-DD hh:mm:ss)")
	f.StringVarP(&flagStopTime, "stop-time", "B", "",
		"only output packets whose timestamp is before the given time (YYYY-MM-DD hh:mm:ss)")

	f.BoolVarP(&flagDedup, "dedup", "d", false,
		"remove packet if duplicate (window == 5)")
	f.IntVarP(&flagDedupWindow, "dedup-window", "D", edit.DefaultWindow,
		"remove packet if duplicate; configurable <dup window>, valid values are 0 to 1000000")
	f.StringVarP(&flagDedupTime, "dedup-time", "w", "",
		"remove packet if duplicate packet is found equal to or less than <dup time window> prior to current packet (relative seconds, e.g. 0.000001)")
	f.BoolVar(&flagNoVLAN, "novlan", false,
		"remove vlan info from packets before checking for duplicates")
	f.BoolVar(&flagSkipRadiotap, "skip-radiotap-header", false,
		"skip radiotap header when checking for packet duplicates")
	f.IntVarP(&flagIgnoreBytes, "ignore-bytes", "I", 0,
		"ignore the specified number of bytes at the beginning of the frame during hash calculation")

	f.IntVarP(&flagSnaplen, "snaplen", "s", 0,
		"truncate each packet to max. <snaplen> bytes of data")
	f.BoolVarP(&flagAdjustLen, "adjust-length", "L", false,
		"adjust the frame (i.e. reported) length when chopping and/or snapping")
	f.StringArrayVarP(&flagChops, "chop", "C", nil,
		"chop each packet by [offset:]<choplen> bytes; positive values chop at the beginning, negative at the end (repeatable, up to 2 regions)")

	f.StringVarP(&flagTimeAdj, "time-adjustment", "t", "",
		"adjust the timestamp of each packet by <time adjustment> relative seconds (e.g. -0.5)")
	f.StringVarP(&flagStrictAdj, "strict-time-adjustment", "S", "",
		"adjust timestamps if necessary to ensure strict chronological order; a negative value forces every packet's delta to its absolute value")

	f.Float64VarP(&flagErrProb, "error-probability", "E", -1,
		"probability (between 0.0 and 1.0 incl.) that a particular packet byte will be randomly changed")
	f.IntVarP(&flagChangeOffset, "change-offset", "o", 0,
		"skip some bytes from the beginning of the packet when introducing errors")
	f.Int64Var(&flagSeed, "seed", 0,
		"seed for the pseudo-random number generator used with -E")

	f.StringArrayVarP(&flagComments, "comment", "a", nil,
		"add or replace comment for given frame number (<framenum>:<comment>, repeatable)")
	f.StringVar(&flagCommentsFile, "comments-file", "",
		"yaml file mapping frame numbers to comments")

	f.IntVarP(&flagSplitCount, "packets-per-file", "c", 0,
		"split the packet output to different files with a maximum of <packets per file> each")
	f.Int64VarP(&flagSecsPerFile, "seconds-per-file", "i", 0,
		"split the packet output to different files covering a maximum of <seconds per file> each")
	f.StringVarP(&flagFormat, "output-format", "F", "pcap",
		"set the output file type (pcap or pcapng)")
	f.StringVarP(&flagEncap, "output-encap", "T", "",
		"set the output file encapsulation type; default is the same as the input file")

	f.BoolVarP(&flagVerbose, "verbose", "v", false, "verbose output")
	f.StringVar(&flagLogFile, "log-file", "", "duplicate log output into a rotating file")
}

// buildOptions folds defaults file and flags into validated run options.
func buildOptions(cmd *cobra.Command, args []string) (*config.Options, error) {
	opts := config.NewOptions()
	if err := config.LoadDefaults(flagConfig, opts); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	opts.Infile = args[0]
	opts.Outfile = args[1]
	for _, sel := range args[2:] {
		if err := opts.AddRange(sel); err != nil {
			return nil, err
		}
	}
	opts.Keep = flagKeep

	if flagStartTime != "" {
		t, err := config.ParseAbsTime(flagStartTime)
		if err != nil {
			return nil, err
		}
		opts.StartTime = t
		opts.CheckStartStop = true
	}
	if flagStopTime != "" {
		t, err := config.ParseAbsTime(flagStopTime)
		if err != nil {
			return nil, err
		}
		opts.StopTime = t
		opts.CheckStartStop = true
	} else if opts.CheckStartStop {
		opts.StopTime = config.DefaultStopTime()
	}

	if flagDedup || flags.Changed("dedup-window") {
		opts.DupDetect = true
		opts.DupWindow = flagDedupWindow
	}
	if flags.Changed("dedup-time") {
		tw, err := config.ParseTimeWindow(flagDedupTime)
		if err != nil {
			return nil, err
		}
		opts.DupDetectByTime = true
		opts.DupTimeWindow = tw
	}
	opts.StripVLAN = flagNoVLAN
	opts.SkipRadiotap = flagSkipRadiotap
	opts.IgnoreBytes = flagIgnoreBytes

	opts.Snaplen = flagSnaplen
	opts.AdjustLen = flagAdjustLen
	for _, c := range flagChops {
		if err := config.ParseChopInto(&opts.Chop, c); err != nil {
			return nil, err
		}
	}

	if flagTimeAdj != "" {
		adj, err := config.ParseAdjustment(flagTimeAdj)
		if err != nil {
			return nil, err
		}
		opts.TimeAdj = adj
	}
	if flags.Changed("strict-time-adjustment") {
		adj, err := config.ParseAdjustment(flagStrictAdj)
		if err != nil {
			return nil, err
		}
		opts.StrictAdj = adj
		opts.StrictTime = true
	}

	opts.ErrProb = flagErrProb
	opts.ChangeOffset = flagChangeOffset
	if flags.Changed("seed") {
		opts.Seed = flagSeed
	} else {
		opts.Seed = time.Now().UnixNano() ^ int64(os.Getpid())
	}

	for _, c := range flagComments {
		frame, comment, err := config.ParseComment(c)
		if err != nil {
			return nil, err
		}
		opts.Comments[frame] = comment
	}
	if flagCommentsFile != "" {
		if err := config.LoadCommentsFile(flagCommentsFile, opts); err != nil {
			return nil, err
		}
	}

	opts.SplitPacketCount = flagSplitCount
	opts.SecsPerBlock = flagSecsPerFile
	if flags.Changed("output-format") {
		opts.OutputFormat = flagFormat
	}
	if flagEncap != "" {
		lt, err := config.ParseLinkType(flagEncap)
		if err != nil {
			return nil, err
		}
		opts.EncapOverride = lt
		opts.EncapSet = true
	}
	if flags.Changed("verbose") {
		opts.Verbose = flagVerbose
	}
	if flags.Changed("log-file") {
		opts.LogFile = flagLogFile
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions(cmd, args)
	if err != nil {
		return err
	}

	log.Init(log.Config{Verbose: opts.Verbose, File: opts.LogFile})
	if opts.ErrProb >= 0 {
		logrus.Debugf("using seed %d", opts.Seed)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := pipeline.New(opts).Run(ctx)
	if err != nil {
		return err
	}
	logrus.Debugf("%d packets read, %d written, %d duplicates dropped",
		stats.Read, stats.Written, stats.Duplicates)
	return nil
}
