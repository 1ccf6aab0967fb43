package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/wordflash/internal/config"
	"github.com/san-kum/wordflash/internal/export"
	"github.com/san-kum/wordflash/internal/flash"
	"github.com/san-kum/wordflash/internal/render"
	"github.com/san-kum/wordflash/internal/storage"
	"github.com/san-kum/wordflash/internal/tui"
	"github.com/san-kum/wordflash/internal/words"
)

var (
	dataDir     string
	configFile  string
	logFile     string
	width       int
	height      int
	foreground  string
	background  string
	fontName    string
	preset      string
	afterRecord string
	themeName   string
	outputDir   string
	outputFile  string

	logCloser io.Closer
)

// main registers the commands and runs the root command. With no subcommand
// the interactive flasher starts.
func main() {
	rootCmd := &cobra.Command{
		Use:   "wordflash [text...]",
		Short: "flash words to a recorded rhythm",
		Long: "wordflash shows words one at a time. Tap through them once to record\n" +
			"the rhythm, then loop it back or bake it into an animated GIF.",
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logCloser != nil {
				logCloser.Close()
			}
		},
		RunE: runInteractive,
	}

	registerFlags(rootCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded sessions",
		RunE:  listSessions,
	}

	showCmd := &cobra.Command{
		Use:   "show [session_id]",
		Short: "show the recorded timing of a session",
		Args:  cobra.ExactArgs(1),
		RunE:  showSession,
	}

	exportCmd := &cobra.Command{
		Use:   "export [session_id]",
		Short: "export a session as an animated GIF",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSession,
	}
	exportCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default derived from the text)")

	playCmd := &cobra.Command{
		Use:   "play [session_id]",
		Short: "loop a recorded session in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  playSession,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list style presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tFG\tBG\tFONT\tSIZE")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%dx%d\n", name, p.Foreground, p.Background, p.Font, p.Width, p.Height)
			}
			return w.Flush()
		},
	}

	fontsCmd := &cobra.Command{
		Use:   "fonts",
		Short: "list font families",
		Run: func(cmd *cobra.Command, args []string) {
			for _, f := range render.ListFonts() {
				fmt.Printf("  %s\n", f)
			}
		},
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a config file with the current settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(listCmd, showCmd, exportCmd, playCmd, presetsCmd, fontsCmd, initConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging sends the standard logger to a file when --log is given.
// Otherwise logging is discarded so it cannot corrupt the TUI.
func setupLogging(cmd *cobra.Command, args []string) error {
	if logFile == "" {
		log.SetOutput(io.Discard)
		return nil
	}
	f, err := tea.LogToFile(logFile, "wordflash")
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	logCloser = f
	return nil
}

func newRenderer(cfg *config.Config) (*render.Renderer, error) {
	return render.New(render.Style{
		Width:      cfg.Width,
		Height:     cfg.Height,
		Foreground: cfg.Foreground,
		Background: cfg.Background,
		Font:       cfg.Font,
	})
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		cfg.Text = strings.Join(args, " ")
	}

	after, err := flash.ParseAfterRecord(cfg.AfterRecord)
	if err != nil {
		return err
	}
	renderer, err := newRenderer(cfg)
	if err != nil {
		return err
	}

	ctrl := flash.New(nil, after)
	ctrl.SetText(cfg.Text)

	return tui.Run(ctrl, tui.Options{
		Config:   cfg,
		Renderer: renderer,
		Store:    storage.New(cfg.DataDir),
	})
}

func listSessions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sessions, err := storage.New(cfg.DataDir).List()
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("no sessions found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tWORDS\tTOTAL\tTEXT")

	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%d\t%dms\t%s\n",
			s.ID,
			s.Timestamp.Format("2006-01-02 15:04:05"),
			s.Tokens,
			s.TotalMs,
			preview(s.Text, 40),
		)
	}

	return w.Flush()
}

func showSession(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tokens, timings, err := st.LoadTimings(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("session: %s\n", meta.ID)
	fmt.Printf("text: %s\n", meta.Text)
	fmt.Printf("style: %dx%d %s on %s, %s\n", meta.Width, meta.Height, meta.Foreground, meta.Background, meta.Font)
	fmt.Printf("words: %d, total: %dms\n\n", meta.Tokens, meta.TotalMs)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tWORD\tDELAY")
	for i, tok := range tokens {
		fmt.Fprintf(w, "%d\t%s\t%dms\n", i, tok, timings[i].Milliseconds())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(timings) > 1 {
		data := make([]float64, len(timings))
		for i, d := range timings {
			data[i] = float64(d.Milliseconds())
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption("delay per word (ms)"),
		))
	}
	return nil
}

// sessionController loads a saved session into a fresh controller, styled
// the way it was recorded unless flags say otherwise.
func sessionController(cmd *cobra.Command, id string) (*flash.Controller, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(id)
	if err != nil {
		return nil, nil, err
	}
	_, timings, err := st.LoadTimings(id)
	if err != nil {
		return nil, nil, err
	}

	applySessionStyle(cmd, cfg, meta)
	cfg.Text = meta.Text

	after, err := flash.ParseAfterRecord(cfg.AfterRecord)
	if err != nil {
		return nil, nil, err
	}
	ctrl := flash.New(nil, after)
	if err := ctrl.Restore(meta.Text, timings); err != nil {
		return nil, nil, err
	}
	return ctrl, cfg, nil
}

func exportSession(cmd *cobra.Command, args []string) error {
	ctrl, cfg, err := sessionController(cmd, args[0])
	if err != nil {
		return err
	}
	renderer, err := newRenderer(cfg)
	if err != nil {
		return err
	}

	job, err := ctrl.BeginExport()
	if err != nil {
		return err
	}
	defer ctrl.EndExport()

	path := outputFile
	if path == "" {
		path = filepath.Join(cfg.OutputDir, words.Filename(job.Text))
	}

	f, err := export.Create(path, renderer.Palette())
	if err != nil {
		return err
	}
	if err := job.Build(context.Background(), renderer, f); err != nil {
		f.Abort()
		return err
	}

	fmt.Printf("exported %d frames to %s\n", len(job.Tokens), f.Path())
	return nil
}

func playSession(cmd *cobra.Command, args []string) error {
	ctrl, cfg, err := sessionController(cmd, args[0])
	if err != nil {
		return err
	}
	renderer, err := newRenderer(cfg)
	if err != nil {
		return err
	}
	return tui.Run(ctrl, tui.Options{
		Config:   cfg,
		Renderer: renderer,
		Store:    storage.New(cfg.DataDir),
		Autoplay: true,
	})
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
