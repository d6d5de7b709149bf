package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/session"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
	"github.com/ayusman/mudra/internal/vision"
)

func main() {
	fmt.Println("Mudra - Sign Language Interpreter")

	configPath := flag.String("config", config.DefaultPath(), "path to the YAML config file")
	withTray := flag.Bool("tray", false, "run with a system tray icon")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		dataDir = filepath.Join(homeDir, ".mudra")
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "mudra.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Stored settings win over the config file for the tunables the UI can
	// change.
	stored, err := st.Settings().Load()
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if stored.IntervalMs > 0 {
		cfg.IntervalMs = stored.IntervalMs
	}
	if stored.Model != "" {
		cfg.Model = stored.Model
	}
	if stored.JPEGQuality > 0 {
		cfg.JPEGQuality = stored.JPEGQuality
	}
	if stored.MotionGate {
		cfg.MotionGate = true
	}

	sess := session.New()
	if os.Getenv(vision.EnvAPIKey) == "" {
		msg := "API key is not configured. Set " + vision.EnvAPIKey + " before starting analysis."
		sess.SetError(msg)
		sess.Log(session.SeverityError, msg)
		log.Println(msg)
	}

	interpreter := app.New(app.Config{
		Camera:      capture.NewCamera(cfg.CameraID, cfg.Width, cfg.Height),
		Motion:      capture.NewMotionDetector(cfg.MotionThreshold),
		Client:      vision.NewGeminiClient(cfg.Model),
		Session:     sess,
		Interval:    time.Duration(cfg.IntervalMs) * time.Millisecond,
		JPEGQuality: cfg.JPEGQuality,
		MotionGate:  cfg.MotionGate,
	})

	webDir := cfg.StaticDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir:   webDir,
		Session:     sess,
		Interpreter: interpreter,
		Store:       st,
	})

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Addr)
		errCh <- srv.ListenAndServe(cfg.Addr)
	}()

	shutdown := func() {
		interpreter.StopCamera()
	}

	if *withTray {
		t := tray.New()
		t.OnToggle(func(active bool) {
			if active {
				if err := interpreter.StartCamera(); err != nil {
					log.Printf("Failed to start camera: %v", err)
				}
			} else {
				interpreter.StopCamera()
			}
		})
		t.OnOpenUI(func() {
			openBrowser("http://localhost" + cfg.Addr)
		})
		t.OnQuit(shutdown)

		// Keep the menu in step with state changed through the web page.
		go func() {
			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()
			for range ticker.C {
				snap := sess.Snapshot()
				t.SetLastText(snap.Transcription)
				if snap.CameraActive != t.IsActive() {
					t.SetActive(snap.CameraActive)
				}
			}
		}()

		// systray owns the main thread until quit.
		t.Run()
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("Server failed: %v", err)
	case sig := <-sigCh:
		log.Printf("Received %v, shutting down", sig)
		shutdown()
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

// openBrowser opens the given URL with the platform opener.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
