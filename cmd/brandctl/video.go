package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"brandkit/internal/apiclient"
	"brandkit/internal/domain"
	"brandkit/internal/polldriver"
)

var videoCmd = &cobra.Command{
	Use:   "video",
	Short: "Submit and track avatar videos",
}

var videoGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Submit a video narrating the topic's X template",
	Long:  "Submits a video for --owner and --subject. With --wait the command polls the status until the video completes, fails, or --timeout elapses.",
	RunE:  runVideoGenerate,
}

var videoStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check a video by --owner/--subject, or the raw provider status by --job-id",
	RunE:  runVideoStatus,
}

var videoCancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel an in-progress video",
	RunE:  runVideoCancel,
}

var videoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List an owner's videos newest first",
	RunE:  runVideoList,
}

var (
	videoOwner    string
	videoSubject  string
	videoAvatar   string
	videoVoice    string
	videoJobID    string
	videoWait     bool
	videoInterval time.Duration
	videoTimeout  time.Duration
)

func init() {
	for _, c := range []*cobra.Command{videoGenerateCmd, videoStatusCmd, videoCancelCmd, videoListCmd} {
		c.Flags().StringVar(&videoOwner, "owner", "", "Owner (user) id; optional when --token carries the subject")
	}
	for _, c := range []*cobra.Command{videoGenerateCmd, videoStatusCmd, videoCancelCmd} {
		c.Flags().StringVar(&videoSubject, "subject", "", "Subject (topic) id")
	}
	_ = videoGenerateCmd.MarkFlagRequired("subject")
	_ = videoCancelCmd.MarkFlagRequired("subject")

	videoGenerateCmd.Flags().StringVar(&videoAvatar, "avatar", "", "HeyGen avatar id (defaults to saved preferences)")
	videoGenerateCmd.Flags().StringVar(&videoVoice, "voice", "", "HeyGen voice id (defaults to saved preferences)")
	videoGenerateCmd.Flags().BoolVar(&videoWait, "wait", false, "Poll until the video reaches a terminal phase")
	videoGenerateCmd.Flags().DurationVar(&videoInterval, "interval", polldriver.DefaultInterval, "Poll interval with --wait")
	videoGenerateCmd.Flags().DurationVar(&videoTimeout, "timeout", polldriver.DefaultTimeout, "Give up polling after this long")

	videoStatusCmd.Flags().StringVar(&videoJobID, "job-id", "", "Provider job id; reads the raw provider status without updating the record")

	videoCmd.AddCommand(videoGenerateCmd, videoStatusCmd, videoCancelCmd, videoListCmd)
	rootCmd.AddCommand(videoCmd)
}

func newAPIClient() *apiclient.Client {
	return apiclient.New(apiBaseURL, apiToken, nil)
}

func runVideoGenerate(cmd *cobra.Command, _ []string) error {
	client := newAPIClient()
	req := polldriver.SubmitRequest{
		OwnerID:     videoOwner,
		SubjectID:   videoSubject,
		CharacterID: videoAvatar,
		VoiceID:     videoVoice,
	}
	if !videoWait {
		job, err := client.Submit(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), job)
	}

	stderr := cmd.ErrOrStderr()
	driver := &polldriver.Driver{
		API:      client,
		Interval: videoInterval,
		Timeout:  videoTimeout,
		OnTick:   func(t polldriver.Tick) { printTick(stderr, t) },
	}
	out, err := driver.Run(cmd.Context(), req)
	if errors.Is(err, polldriver.ErrTimeout) {
		fmt.Fprintf(stderr, "%v; the job is still in progress, check it later with `brandctl video status`\n", err)
		return printJSON(cmd.OutOrStdout(), out.Job)
	}
	if err != nil {
		return err
	}
	if err := printJSON(cmd.OutOrStdout(), out.Job); err != nil {
		return err
	}
	if out.Job.Phase == domain.PhaseFailed {
		return fmt.Errorf("video generation failed: %s", deref(out.Job.FailureReason))
	}
	return nil
}

func printTick(w io.Writer, t polldriver.Tick) {
	if t.Err != nil {
		fmt.Fprintf(w, "poll %d (%s): %v\n", t.Poll, t.Elapsed.Round(time.Second), t.Err)
		return
	}
	fmt.Fprintf(w, "poll %d (%s): %s\n", t.Poll, t.Elapsed.Round(time.Second), t.Report.ProviderPhase)
}

func runVideoStatus(cmd *cobra.Command, _ []string) error {
	client := newAPIClient()
	if videoJobID != "" {
		st, err := client.ProviderStatus(cmd.Context(), videoJobID)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), st)
	}
	if videoSubject == "" {
		return errors.New("either --job-id or --subject is required")
	}
	report, err := client.CheckStatus(cmd.Context(), videoOwner, videoSubject)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), report)
}

func runVideoCancel(cmd *cobra.Command, _ []string) error {
	job, err := newAPIClient().Cancel(cmd.Context(), videoOwner, videoSubject)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), job)
}

func runVideoList(cmd *cobra.Command, _ []string) error {
	jobs, err := newAPIClient().List(cmd.Context(), videoOwner)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if len(jobs) == 0 {
		fmt.Fprintln(w, "no videos")
		return nil
	}
	for _, j := range jobs {
		detail := deref(j.ResultURI)
		if j.Phase == domain.PhaseFailed {
			detail = deref(j.FailureReason)
		}
		fmt.Fprintf(w, "%-36s  %-11s  %-30s  %s\n", j.SubjectID, j.Phase, truncate(j.SubjectName, 30), detail)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
