package session

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/lpforge/lpforge/internal/page"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// documentEvent is the outgoing websocket message: the full document
// after a successful mutation.
type documentEvent struct {
	Type string `json:"type"`
	HTML string `json:"html"`
	CSS  string `json:"css"`
}

// handleWatch streams document updates to a client. The full document
// is pushed once on connect (when one exists) and again after every
// successful mutation.
func handleWatch(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := store.Get(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("session: websocket upgrade: %v", err)
			return
		}
		defer conn.Close()

		updates, cancel := sess.Watch()
		defer cancel()

		// Reader goroutine only detects the peer going away.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		if doc := sess.Document(); !doc.IsEmpty() {
			if err := writeDocument(conn, doc); err != nil {
				return
			}
		}

		for {
			select {
			case doc := <-updates:
				if err := writeDocument(conn, doc); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}
}

func writeDocument(conn *websocket.Conn, doc page.Document) error {
	err := conn.WriteJSON(documentEvent{Type: "document", HTML: doc.HTML, CSS: doc.CSS})
	if err != nil {
		log.Printf("session: websocket write: %v", err)
	}
	return err
}
