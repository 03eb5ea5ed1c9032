package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gogpu/gg"

	"SheetBoard/internal/config"
	"SheetBoard/internal/export"
	"SheetBoard/internal/logging"
	sheetnet "SheetBoard/internal/net"
	"SheetBoard/internal/session"
	"SheetBoard/internal/store"
	"SheetBoard/internal/ui"
)

// CustomURLScheme prefixes share links: sheetboard://host:port/sheetID.
const CustomURLScheme = "sheetboard://"

const usage = `usage: sheetboard [command] [flags]

commands:
  run       open the desktop board (default)
  serve     serve sheet previews without a window
  sheets    list sheets
  export    write a sheet to png, jpg or pdf
  discover  find preview servers on the local network
  watch     follow a sheet on a preview server

A sheetboard://host:port/sheetID link as the only argument runs watch.
`

func main() {
	args := os.Args[1:]
	cmd := "run"
	if len(args) > 0 && strings.HasPrefix(args[0], CustomURLScheme) {
		cmd, args = "watch", []string{strings.TrimPrefix(args[0], CustomURLScheme)}
	} else if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd {
	case "run":
		err = runHost(ctx, args)
	case "serve":
		err = runServe(ctx, args)
	case "sheets":
		err = runSheets(ctx, args)
	case "export":
		err = runExport(ctx, args)
	case "discover":
		err = runDiscover(args)
	case "watch":
		err = runWatch(ctx, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Logger().Error(cmd+" failed", "err", err)
		fmt.Fprintln(os.Stderr, "sheetboard:", err)
		os.Exit(1)
	}
}

// setup parses the shared -config flag, installs the logger and opens the
// store.
func setup(ctx context.Context, fs *flag.FlagSet, args []string) (config.Config, store.Store, error) {
	path := fs.String("config", config.DefaultPath, "configuration file")
	if err := fs.Parse(args); err != nil {
		return config.Config{}, nil, err
	}
	cfg, err := config.Load(*path)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger := logging.New(os.Stderr, cfg.Log.Level)
	logging.SetLogger(logger)
	gg.SetLogger(logger)

	st, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return config.Config{}, nil, err
	}
	logging.Logger().Info("store opened", "backend", cfg.Store.Backend)
	return cfg, st, nil
}

// startPreview runs the hub and, when an address is configured, the preview
// server and its mDNS announcement. It returns the share link, if any.
func startPreview(ctx context.Context, cfg config.Config, st store.Store, hub *sheetnet.Hub) string {
	go hub.Run(ctx)
	if cfg.Server.Addr == "" {
		return ""
	}
	srv := &sheetnet.Server{Store: st, Hub: hub, UserID: cfg.UserID}
	go func() {
		if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
			logging.Logger().Error("preview server stopped", "err", err)
		}
	}()

	port, err := sheetnet.PortOf(cfg.Server.Addr)
	if err != nil {
		logging.Logger().Warn("preview port", "addr", cfg.Server.Addr, "err", err)
		return ""
	}
	if cfg.Server.Advertise {
		mdnsServer, err := sheetnet.Advertise(cfg.Server.Instance, port)
		if err != nil {
			logging.Logger().Warn("mDNS advertise failed", "err", err)
		} else {
			go func() {
				<-ctx.Done()
				mdnsServer.Shutdown()
			}()
		}
	}
	return fmt.Sprintf("http://%s:%d/sheets", sheetnet.GetOutgoingIP(), port)
}

func runHost(ctx context.Context, args []string) error {
	cfg, st, err := setup(ctx, flag.NewFlagSet("run", flag.ExitOnError), args)
	if err != nil {
		return err
	}
	defer st.Close()

	hub := sheetnet.NewHub()
	link := startPreview(ctx, cfg, st, hub)
	return ui.RunApp(ctx, cfg, ui.Options{
		Store:      st,
		Publisher:  hub,
		Forget:     hub.Forget,
		PreviewURL: link,
	})
}

func runServe(ctx context.Context, args []string) error {
	cfg, st, err := setup(ctx, flag.NewFlagSet("serve", flag.ExitOnError), args)
	if err != nil {
		return err
	}
	defer st.Close()
	if cfg.Server.Addr == "" {
		return fmt.Errorf("no server address configured")
	}

	link := startPreview(ctx, cfg, st, sheetnet.NewHub())
	fmt.Println("serving", link)
	<-ctx.Done()
	return nil
}

func runSheets(ctx context.Context, args []string) error {
	cfg, st, err := setup(ctx, flag.NewFlagSet("sheets", flag.ExitOnError), args)
	if err != nil {
		return err
	}
	defer st.Close()

	lib := &session.Library{Store: st, UserID: cfg.UserID}
	sheets, err := lib.Sheets(ctx)
	if err != nil {
		return err
	}
	for _, sh := range sheets {
		fmt.Printf("%s\t%s\t%s\n", sh.ID, sh.UpdatedAt.Local().Format(time.DateTime), sh.Name)
	}
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	sheet := fs.String("sheet", "", "sheet id or name")
	format := fs.String("format", "png", "png, jpg or pdf")
	out := fs.String("o", "", "output file (default <sheet name>.<format>)")
	cfg, st, err := setup(ctx, fs, args)
	if err != nil {
		return err
	}
	defer st.Close()

	f, err := export.ParseFormat(*format)
	if err != nil {
		return err
	}
	id, err := resolveSheet(ctx, st, cfg.UserID, *sheet)
	if err != nil {
		return err
	}
	sess, err := session.Open(ctx, st, id, session.Options{
		Width:      cfg.Canvas.Width,
		Height:     cfg.Canvas.Height,
		Background: cfg.Canvas.Background,
	})
	if err != nil {
		return err
	}

	name := *out
	if name == "" {
		name = sess.ExportName(f)
	}
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := sess.Export(file, f); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	fmt.Println("wrote", name)
	return nil
}

func resolveSheet(ctx context.Context, st store.Store, userID, ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("-sheet is required")
	}
	if _, err := st.GetSheet(ctx, ref); err == nil {
		return ref, nil
	}
	sheets, err := st.ListSheets(ctx, userID)
	if err != nil {
		return "", err
	}
	for _, sh := range sheets {
		if sh.Name == ref {
			return sh.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %s", store.ErrSheetNotFound, ref)
}

func runDiscover(args []string) error {
	fs := flag.NewFlagSet("discover", flag.ExitOnError)
	timeout := fs.Duration("timeout", 3*time.Second, "how long to listen for answers")
	if err := fs.Parse(args); err != nil {
		return err
	}
	found := 0
	err := sheetnet.Browse(*timeout, func(p sheetnet.Peer) {
		found++
		fmt.Printf("%s\thttp://%s/sheets\n", p.Instance, p.Addr)
	})
	if err != nil {
		return err
	}
	if found == 0 {
		fmt.Println("no preview servers found")
	}
	return nil
}

// runWatch prints every snapshot of a sheet on a preview server. It takes
// host:port/sheetID.
func runWatch(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("watch needs host:port/sheetID")
	}
	hostport, sheetID, ok := strings.Cut(strings.TrimSuffix(args[0], "/"), "/")
	if !ok || sheetID == "" {
		return fmt.Errorf("watch needs host:port/sheetID, got %q", args[0])
	}
	return sheetnet.Follow(ctx, sheetnet.LiveURL(hostport, sheetID), func(s sheetnet.Snapshot) {
		fmt.Printf("revision %d: %d bytes of elements\n", s.Revision, len(s.Elements))
	})
}
