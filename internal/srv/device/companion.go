package device

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mkarren/bigtime/apimodel"
	"github.com/mkarren/bigtime/internal/srv/config"
	"github.com/mkarren/bigtime/internal/srv/event"
	"github.com/mkarren/bigtime/internal/tool"
	"github.com/sirupsen/logrus"
)

// Companion exposes the settings dictionary to the paired companion
// device and routes inbound updates into the event loop.
type Companion struct {
	eventChannel chan event.SyncEvent

	router    *mux.Router
	apiRouter *mux.Router
	server    *http.Server

	config *config.ServerConfig
}

func NewCompanion(config *config.ServerConfig) *Companion {
	companion := Companion{
		config:       config,
		eventChannel: make(chan event.SyncEvent),
	}

	companion.router = mux.NewRouter().StrictSlash(false)

	// API Routes
	companion.apiRouter = companion.router.PathPrefix("/api").Subrouter()
	companion.apiRouter.NotFoundHandler = http.HandlerFunc(ErrorNotFoundAction)
	companion.apiRouter.MethodNotAllowedHandler = http.HandlerFunc(ErrorMethodNotAllowedAction)

	// Auth middleware
	companion.apiRouter.Use(
		func(handler http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				defer func() {
					if rec := recover(); rec != nil {
						logrus.Warningf("recovered from panic : [%v] - stack trace : \n [%s]", rec, debug.Stack())
						strMessage := fmt.Sprintf("%v", rec)
						GlobalErrorAction(w, strMessage, http.StatusInternalServerError)
					}
				}()

				// Check API Key
				apiKey := r.Header.Get("x-api-key")
				if apiKey != config.ServerParam.CompanionParam.ApiKey {
					ErrorStatusAction(w, r, http.StatusForbidden)
					return
				}

				logrus.Debugf("PATH: %s %s", r.Host, r.URL.Path)

				handler.ServeHTTP(w, r)
			})
		})

	// Create server check endpoint
	companion.apiRouter.HandleFunc("/is_alive",
		func(w http.ResponseWriter, r *http.Request) {
			ErrorStatusAction(w, r, http.StatusOK)
		}).Methods("GET")

	// Full settings dictionary
	companion.apiRouter.HandleFunc("/settings",
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(config.Settings.Dictionary())
		}).Methods("GET")

	// Inbound settings updates
	companion.apiRouter.HandleFunc("/settings",
		func(w http.ResponseWriter, r *http.Request) {
			var updates []apimodel.SyncUpdate
			if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
				ErrorStatusAction(w, r, http.StatusBadRequest)
				return
			}

			applied := 0
			for _, update := range updates {
				result := make(chan error)
				companion.eventChannel <- event.SyncEvent{Result: result, Update: update}
				if err := <-result; err == nil {
					applied++
				}
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]int{"applied": applied})
		}).Methods("POST")

	// Tell the browser that it's OK for JS to communicate with the server
	headersOk := handlers.AllowedHeaders([]string{"Authorization"})
	originsOk := handlers.AllowedOrigins([]string{"*"})
	methodsOk := handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})

	companion.server = &http.Server{
		Addr:         ":" + strconv.FormatInt(config.ServerParam.CompanionParam.SslPort, 10),
		Handler:      handlers.CompressHandler(handlers.CORS(originsOk, headersOk, methodsOk)(companion.router)),
		ReadTimeout:  time.Second * 240,
		WriteTimeout: time.Second * 240,
		IdleTimeout:  time.Second * 240,
	}

	return &companion
}

func (d *Companion) Start() {
	if !d.config.ServerParam.CompanionParam.Enabled {
		logrus.Infof("Companion device disabled")
		return
	}

	logrus.Infof("Start companion device")

	existServerCert, err := tool.IsFileExists(d.selfSignedCertFilename())
	if err != nil {
		logrus.Fatalf("Unable to access %s: %v\n", d.selfSignedCertFilename(), err)
	}

	existServerKey, err := tool.IsFileExists(d.selfSignedKeyFilename())
	if err != nil {
		logrus.Fatalf("Unable to access %s: %v\n", d.selfSignedKeyFilename(), err)
	}

	if !existServerCert || !existServerKey {
		logrus.Info("Missing cert and key files, trying to generate them...")
		err = tool.GenerateTlsCertificate(
			"bigtime",
			"Bigtime Watch",
			d.selfSignedKeyFilename(),
			d.selfSignedCertFilename(),
			[]string{})
		if err != nil {
			logrus.Fatalf("Unable to generate cert and key files : %v\n", err)
		}
		logrus.Info("Self-signed cert and key files generated")
	}

	// Launch https server
	go func() {
		err := d.server.ListenAndServeTLS(d.selfSignedCertFilename(), d.selfSignedKeyFilename())
		if err != nil && err.Error() != "http: Server closed" {
			logrus.Error(err)
		}
	}()

	d.sendHandshake()
}

// sendHandshake pings the companion push endpoint once at startup so the
// paired device knows the watch came up and can resend its settings.
func (d *Companion) sendHandshake() {
	pushUrl := d.config.ServerParam.CompanionParam.PushUrl
	if pushUrl == "" {
		return
	}

	go func() {
		body, _ := json.Marshal(map[string]int{"cmd": 1})
		request, err := http.NewRequest("POST", pushUrl, bytes.NewReader(body))
		if err != nil {
			logrus.Warnf("Unable to build handshake request: %v", err)
			return
		}
		request.Header.Set("Content-Type", "application/json")
		request.Header.Set("x-api-key", d.config.ServerParam.CompanionParam.ApiKey)

		client := &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		}
		response, err := client.Do(request)
		if err != nil {
			logrus.Warnf("Companion handshake failed: %v", err)
			return
		}
		response.Body.Close()
		logrus.Debugf("Companion handshake sent to %s", pushUrl)
	}()
}

func (d *Companion) StopSendingEvent() {
	if !d.config.ServerParam.CompanionParam.Enabled {
		return
	}
	logrus.Infof("Stop companion device")
	d.server.Shutdown(context.Background())
}

func (d *Companion) EventChannel() chan event.SyncEvent {
	return d.eventChannel
}

func (d *Companion) selfSignedKeyFilename() string {
	return filepath.Join(d.config.ConfigDir, "key.pem")
}

func (d *Companion) selfSignedCertFilename() string {
	return filepath.Join(d.config.ConfigDir, "cert.pem")
}

func ErrorNotFoundAction(w http.ResponseWriter, r *http.Request) {
	ErrorStatusAction(w, r, http.StatusNotFound)
}

func ErrorMethodNotAllowedAction(w http.ResponseWriter, r *http.Request) {
	ErrorStatusAction(w, r, http.StatusMethodNotAllowed)
}

func ErrorStatusAction(w http.ResponseWriter, r *http.Request, status int) {
	ErrorMessageAction(w, "", status)
}

func GlobalErrorAction(w http.ResponseWriter, message string, status int) {
	ErrorMessageAction(w, message, status)
}

func ErrorMessageAction(w http.ResponseWriter, title string, status int) {
	errorMessage := &apimodel.ErrorMessage{
		ErrStatusCode: status,
		ErrMessage:    title,
	}

	if title == "" {
		switch status {
		case http.StatusOK:
			errorMessage.ErrMessage = "Ok"
		case http.StatusNotFound:
			errorMessage.ErrMessage = "Page not found"
		case http.StatusMethodNotAllowed:
			errorMessage.ErrMessage = "Method not allowed"
		case http.StatusForbidden:
			errorMessage.ErrMessage = "Forbidden"
		case http.StatusServiceUnavailable:
			errorMessage.ErrMessage = "Service unavailable"
		case http.StatusBadRequest:
			errorMessage.ErrMessage = "Bad request"
		default:
			errorMessage.ErrMessage = "Internal error"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorMessage)
}
