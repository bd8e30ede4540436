package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/jinzhu/gorm"
	uuid "github.com/satori/go.uuid"

	_ "github.com/jinzhu/gorm/dialects/mysql"
	_ "github.com/jinzhu/gorm/dialects/sqlite"

	"github.com/ExtraHash/fry/board"
	"github.com/ExtraHash/fry/pieces"
)

// SocketSub is a subscription to catalog pushes.
type SocketSub struct {
	Conn *websocket.Conn
}

// server owns the piece registry and everything that publishes it.
type server struct {
	reg *pieces.Registry
	db  *gorm.DB

	mu         sync.Mutex
	socketSubs []SocketSub
}

func check(e error) {
	if e != nil {
		panic(e)
	}
}

func main() {
	configPath := flag.String("config", "config.json", "path to the config file")
	printOnly := flag.Bool("print", false, "print the board and exit")
	fen := flag.String("fen", board.StartingPlacement, "FEN placement to print")
	square := flag.String("square", "", "highlight the reach of the piece on this square")
	flag.Parse()

	reg, err := pieces.New()
	check(err)

	if *printOnly {
		if err := printReach(os.Stdout, reg, *fen, *square); err != nil {
			color.New(color.FgRed).Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	fmt.Println("Starting backend.")
	config, err := readConfig(*configPath)
	check(err)
	db, err := getDB(config)
	check(err)

	s := &server{reg: reg, db: db}
	log.Fatal(s.listen(":" + strconv.Itoa(config.Port)))
}

// listen serves the API on port until the listener fails, then closes the db.
func (s *server) listen(port string) error {
	defer s.db.Close()
	fmt.Println("\nListening on port " + port)
	return http.ListenAndServe(port, handlers.CORS(handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "Authorization"}), handlers.AllowedMethods([]string{"GET", "POST", "HEAD", "OPTIONS"}), handlers.AllowedOrigins([]string{"*"}))(s.router()))
}

func (s *server) router() *mux.Router {
	router := mux.NewRouter()
	router.Handle("/pieces", s.PiecesGetHandler()).Methods("GET")
	router.Handle("/pieces/{symbol}", s.PieceGetHandler()).Methods("GET")
	router.Handle("/reach", s.ReachPostHandler()).Methods("POST")
	router.Handle("/catalog", s.CatalogPostHandler()).Methods("POST")
	router.Handle("/catalog/{id}", s.CatalogGetHandler()).Methods("GET")
	router.Handle("/socket", s.SocketHandler()).Methods("GET")
	return router
}

// GetIP from http request
func GetIP(r *http.Request) string {
	forwarded := r.Header.Get("X-FORWARDED-FOR")
	if forwarded != "" {
		return forwarded
	}
	return r.RemoteAddr
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(res http.ResponseWriter, status int, v interface{}) {
	byteRes, err := json.Marshal(v)
	if err != nil {
		fmt.Println(err)
		status = http.StatusInternalServerError
		byteRes = []byte(`{"error":"internal error"}`)
	}
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)
	res.Write(byteRes)
}

func writeError(res http.ResponseWriter, status int, msg string) {
	fmt.Println(msg)
	writeJSON(res, status, ErrorResponse{Error: msg})
}

// PiecesGetHandler lists every piece descriptor.
func (s *server) PiecesGetHandler() http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		fmt.Println(req.Method, req.URL, GetIP(req))
		writeJSON(res, http.StatusOK, s.reg.All())
	})
}

// PieceGetHandler looks up one symbol. Unknown symbols answer with the empty
// square unless ?strict is set.
func (s *server) PieceGetHandler() http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		fmt.Println(req.Method, req.URL, GetIP(req))

		raw := mux.Vars(req)["symbol"]
		c, size := utf8.DecodeRuneInString(raw)
		if size != len(raw) {
			c = utf8.RuneError
		}
		strict, _ := strconv.ParseBool(req.URL.Query().Get("strict"))
		if !strict {
			writeJSON(res, http.StatusOK, s.reg.LookupRune(c))
			return
		}

		var d pieces.Descriptor
		err := pieces.ErrUnknownSymbol
		if c <= 0xFF {
			d, err = s.reg.Find(pieces.Symbol(c))
		}
		if err != nil {
			writeError(res, http.StatusNotFound, "unknown piece symbol "+strconv.Quote(raw))
			return
		}
		writeJSON(res, http.StatusOK, d)
	})
}

// ReachRequest asks which squares a piece can reach.
type ReachRequest struct {
	Placement string `json:"placement"`
	Square    string `json:"square"`
}

// ReachResponse is a response to the /reach endpoint.
type ReachResponse struct {
	Square   board.Square   `json:"square"`
	Symbol   string         `json:"symbol"`
	Reach    []board.Square `json:"reach"`
	Attacked []board.Square `json:"attacked"`
	Material int            `json:"material"`
}

// ReachPostHandler applies the piece table to a posted position.
func (s *server) ReachPostHandler() http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		fmt.Println(req.Method, req.URL, GetIP(req))

		body, err := ioutil.ReadAll(req.Body)
		if err != nil {
			writeError(res, http.StatusBadRequest, "could not read body")
			return
		}
		var jsonBody ReachRequest
		if err := json.Unmarshal(body, &jsonBody); err != nil {
			writeError(res, http.StatusBadRequest, "body is not valid json")
			return
		}
		if jsonBody.Placement == "" {
			jsonBody.Placement = board.StartingPlacement
		}
		b, err := board.ParsePlacement(jsonBody.Placement)
		if err != nil {
			writeError(res, http.StatusBadRequest, err.Error())
			return
		}
		sq, err := board.ParseSquare(jsonBody.Square)
		if err != nil {
			writeError(res, http.StatusBadRequest, err.Error())
			return
		}

		writeJSON(res, http.StatusOK, ReachResponse{
			Square:   sq,
			Symbol:   s.reg.Lookup(b.At(sq)).Symbol.String(),
			Reach:    append([]board.Square{}, board.Reach(s.reg, &b, sq)...),
			Attacked: append([]board.Square{}, board.Attacked(s.reg, &b, sq)...),
			Material: board.Material(s.reg, &b),
		})
	})
}

// CatalogPostResponse is a response to the /catalog endpoint.
type CatalogPostResponse struct {
	CatalogID uuid.UUID `json:"catalogID"`
}

// CatalogPush is a websocket notification of the piece table.
type CatalogPush struct {
	CatalogID uuid.UUID           `json:"catalogID"`
	Pieces    []pieces.Descriptor `json:"pieces"`
	Type      string              `json:"type"`
}

// CatalogPostHandler stores a snapshot of the piece table and pushes it to
// every socket subscriber.
func (s *server) CatalogPostHandler() http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		fmt.Println(req.Method, req.URL, GetIP(req))

		catalogID, err := storeCatalog(s.db, s.reg)
		if err != nil {
			writeError(res, http.StatusInternalServerError, "could not store catalog: "+err.Error())
			return
		}
		s.broadcast(CatalogPush{CatalogID: catalogID, Pieces: s.reg.All(), Type: "catalog"})
		writeJSON(res, http.StatusCreated, CatalogPostResponse{CatalogID: catalogID})
	})
}

// CatalogRecord is a stored piece with its vectors decoded.
type CatalogRecord struct {
	PieceRecord
	Moves   []pieces.Displacement `json:"moves"`
	Attacks []pieces.Displacement `json:"attacks"`
}

// CatalogGetResponse is a response to the /catalog/{id} endpoint.
type CatalogGetResponse struct {
	CatalogID uuid.UUID       `json:"catalogID"`
	Pieces    []CatalogRecord `json:"pieces"`
}

// CatalogGetHandler returns a stored snapshot.
func (s *server) CatalogGetHandler() http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		fmt.Println(req.Method, req.URL, GetIP(req))

		catalogID, err := uuid.FromString(mux.Vars(req)["id"])
		if err != nil {
			writeError(res, http.StatusBadRequest, "bad catalog ID")
			return
		}
		records, err := loadCatalog(s.db, catalogID)
		if errors.Is(err, errCatalogNotFound) {
			writeError(res, http.StatusNotFound, err.Error())
			return
		}
		if err != nil {
			writeError(res, http.StatusInternalServerError, err.Error())
			return
		}

		response := CatalogGetResponse{CatalogID: catalogID, Pieces: []CatalogRecord{}}
		for _, r := range records {
			record := CatalogRecord{PieceRecord: r, Moves: deserializeVectors(r.Moves)}
			if r.Attacks != nil {
				record.Attacks = deserializeVectors(r.Attacks)
			}
			response.Pieces = append(response.Pieces, record)
		}
		writeJSON(res, http.StatusOK, response)
	})
}

// SocketHandler subscribes a websocket to catalog pushes. The current table
// is sent right away.
func (s *server) SocketHandler() http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		fmt.Println(req.Method, req.URL, GetIP(req))

		var upgrader = websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		}

		upgrader.CheckOrigin = func(req *http.Request) bool { return true }

		conn, err := upgrader.Upgrade(res, req, nil)
		if err != nil {
			fmt.Println(err)
			return
		}

		fmt.Println("Incoming websocket connection.")

		s.mu.Lock()
		defer s.mu.Unlock()
		if err := conn.WriteJSON(CatalogPush{Pieces: s.reg.All(), Type: "current"}); err != nil {
			fmt.Println(err)
			conn.Close()
			return
		}
		s.socketSubs = append(s.socketSubs, SocketSub{Conn: conn})

		fmt.Println("Added subscription to list.")

		// control frames are only handled while someone reads
		go func() {
			for {
				if _, _, err := conn.NextReader(); err != nil {
					s.unsubscribe(conn)
					return
				}
			}
		}()
	})
}

// unsubscribe closes conn and removes it from the subscription list.
func (s *server) unsubscribe(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.socketSubs {
		if sub.Conn == conn {
			s.socketSubs = append(s.socketSubs[:i], s.socketSubs[i+1:]...)
			fmt.Println("Removed subscription from list.")
			break
		}
	}
	conn.Close()
}

// broadcast sends push to every subscriber and drops the ones that fail.
func (s *server) broadcast(push CatalogPush) {
	s.mu.Lock()
	defer s.mu.Unlock()
	live := s.socketSubs[:0]
	for _, sub := range s.socketSubs {
		if err := sub.Conn.WriteJSON(push); err != nil {
			fmt.Println("Dropping subscription:", err)
			sub.Conn.Close()
			continue
		}
		live = append(live, sub)
	}
	s.socketSubs = live
}
