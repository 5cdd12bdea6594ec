package handlers

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cue-league/internal/pubsub"
)

// pushMessage is the envelope Google Cloud Pub/Sub push subscriptions POST.
type pushMessage struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data      string `json:"data"`
		MessageID string `json:"messageId"`
	} `json:"message"`
}

// decodePush unwraps a push request into the MessagePack payload. On failure
// the response has been written and ok is false.
func decodePush(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("Failed to read request body", "error", err)
		http.Error(w, "Failed to read request body", http.StatusInternalServerError)
		return nil, false
	}
	log.Debug("Received push message", "body", string(bodyBytes))

	var pubsubMsg pushMessage
	if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
		log.Error("Failed to unmarshal wrapper JSON", "error", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return nil, false
	}

	rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
	if err != nil {
		log.Error("Failed to decode base64 data", "error", err)
		http.Error(w, "Invalid base64 data", http.StatusBadRequest)
		return nil, false
	}
	return rawData, true
}

// MatchCompletedPushHandler consumes match-completed events. A non-2xx answer
// makes Pub/Sub redeliver, so only notifier failures are reported as errors.
func MatchCompletedPushHandler(events Events, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawData, ok := decodePush(w, r)
		if !ok {
			return
		}
		var event pubsub.MatchCompletedEvent
		if err := pubsubClient.ProcessMessage(rawData, &event); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		event.DryRun = event.DryRun || IsDryRunFromContext(r)
		if err := events.HandleMatchCompleted(r.Context(), event); err != nil {
			log.Error("Failed to handle match completed event", "error", err, "matchID", event.MatchID)
			http.Error(w, "Failed to process event", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

func RankingRecomputedPushHandler(events Events, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawData, ok := decodePush(w, r)
		if !ok {
			return
		}
		var event pubsub.RankingRecomputedEvent
		if err := pubsubClient.ProcessMessage(rawData, &event); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		if err := events.HandleRankingRecomputed(r.Context(), event, IsDryRunFromContext(r)); err != nil {
			log.Error("Failed to handle ranking recomputed event", "error", err)
			http.Error(w, "Failed to process event", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
