package cmd

import (
	"encoding/json"
	"log"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/jsphweid/pianovision/config"
	"github.com/jsphweid/pianovision/model"
)

var (
	songCache      = make(map[string]*model.Song)
	songCacheMutex sync.Mutex

	// builds refresh the expiry; the cache drops once requests go quiet
	cacheDebounce = debounce.New(5 * time.Minute)
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves song builds over HTTP",
	Long:  `Serves song builds over HTTP`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

type buildRequest struct {
	Path string `json:"path"`
}

func HandleBuild(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	logger := slog.With("requestId", requestID)

	var input buildRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "could not parse request body", 400)
		return
	}
	if input.Path == "" {
		http.Error(w, "path is required", 400)
		return
	}

	songCacheMutex.Lock()
	song, ok := songCache[input.Path]
	songCacheMutex.Unlock()
	if !ok {
		logger.Info("building song", "path", input.Path)
		var err error
		song, err = BuildSong(input.Path, config.Default())
		if err != nil {
			logger.Error("build failed", "path", input.Path, "err", err)
			http.Error(w, err.Error(), 500)
			return
		}
		songCacheMutex.Lock()
		songCache[input.Path] = song
		songCacheMutex.Unlock()
	}
	cacheDebounce(clearSongCache)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(song); err != nil {
		logger.Error("could not write response", "err", err)
	}
}

func clearSongCache() {
	songCacheMutex.Lock()
	defer songCacheMutex.Unlock()
	slog.Info("clearing song cache", "entries", len(songCache))
	songCache = make(map[string]*model.Song)
}

func serve() {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/build", HandleBuild).Methods("POST")
	handler := cors.Default().Handler(router)
	log.Fatal(http.ListenAndServe(":8080", handler))
}
