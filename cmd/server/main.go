package main

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"bedrift/internal/auth"
	"bedrift/internal/config"
	"bedrift/internal/db"
	"bedrift/internal/handlers"
)

var log *logrus.Logger

func init() {
	log = logrus.New()
	log.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}
	log.Out = os.Stdout
}

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal(err)
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	sessionTTL, err := cfg.ParseSessionTTL()
	if err != nil {
		log.Fatal(err)
	}
	rememberTTL, err := cfg.ParseRememberTTL()
	if err != nil {
		log.Fatal(err)
	}

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatal(err)
		}
	}

	dbc, err := db.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal(err)
	}
	defer dbc.Close()

	if err := db.Migrate(dbc); err != nil {
		log.Fatal(err)
	}

	sessions := auth.NewManager(dbc, cfg.SessionSecret, sessionTTL, rememberTTL)

	h := handlers.New(dbc, sessions, log, filepath.Join("web", "templates"), cfg.AdminEmails)

	mux := http.NewServeMux()

	// static files
	fs := http.FileServer(http.Dir(filepath.Join("web", "static")))
	mux.Handle("/static/", http.StripPrefix("/static/", fs))

	// routes
	mux.HandleFunc("/", h.Index)
	mux.HandleFunc("/home", h.Home)
	mux.HandleFunc("/products", h.Products)
	mux.HandleFunc("/aboutus", h.AboutUs)
	mux.HandleFunc("/contact", h.Contact)

	mux.HandleFunc("/register", h.Register)
	mux.HandleFunc("/login", h.Login)
	mux.HandleFunc("/logout", h.Logout)

	mux.HandleFunc("/users", h.RequireAdmin(h.Users))
	mux.HandleFunc("/hendvendelser", h.RequireAdmin(h.Inquiries))

	addr := ":" + cfg.Port

	log.Printf("listening on %s", addr)
	err = http.ListenAndServe(addr, handlers.WithRecover(handlers.WithRequestLog(mux, log), log))
	if err != nil {
		log.Fatal(err)
	}
}
