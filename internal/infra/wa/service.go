package wa

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/mdp/qrterminal"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	walog "go.mau.fi/whatsmeow/util/log"
	_ "modernc.org/sqlite"
)

// Responder turns an incoming chat message into a reply. An empty reply means
// the message is ignored.
type Responder interface {
	Execute(ctx context.Context, name, msg string) (string, error)
}

type ReplyOptions struct {
	GroupID         string // only answer in this chat when set
	ReplyDelayMinMs int
	ReplyDelayMaxMs int
	ShowTyping      bool
}

type Service struct {
	client     *whatsmeow.Client
	dbBasePath string
	log        walog.Logger
	responder  Responder
	opts       ReplyOptions
}

func NewService(dbBasePath string, logger walog.Logger) *Service {
	return &Service{
		dbBasePath: dbBasePath,
		log:        logger,
	}
}

// Initialize opens the device store and creates the client without connecting.
func (s *Service) Initialize(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.dbBasePath), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	// The device store shares the history database file; WAL sticks once set.
	dbAddress := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", s.dbBasePath)
	container, err := sqlstore.New(ctx, "sqlite", dbAddress, s.log.Sub("Database"))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	devices, err := container.GetAllDevices(ctx)
	if err != nil {
		return fmt.Errorf("failed to get devices: %w", err)
	}

	var device *store.Device
	if len(devices) > 0 {
		device = devices[0]
	} else {
		device = container.NewDevice()
	}

	s.client = whatsmeow.NewClient(device, s.log.Sub("Client"))
	s.client.AddEventHandler(func(evt interface{}) {
		switch v := evt.(type) {
		case *events.Message:
			if s.responder != nil {
				go s.handleMessage(context.Background(), v)
			}
		}
	})

	return nil
}

// HandleCommands answers incoming messages with the responder.
func (s *Service) HandleCommands(responder Responder, opts ReplyOptions) {
	s.responder = responder
	s.opts = opts
}

func (s *Service) Connect() error {
	if s.client == nil {
		return fmt.Errorf("client not initialized")
	}
	if s.client.IsConnected() {
		return nil
	}
	return s.client.Connect()
}

func (s *Service) Disconnect() {
	if s.client != nil {
		s.client.Disconnect()
	}
}

func (s *Service) IsLoggedIn() bool {
	return s.client.Store.ID != nil
}

func (s *Service) Pair(phone string) (string, error) {
	if s.IsLoggedIn() {
		return "", fmt.Errorf("already logged in")
	}
	if !s.client.IsConnected() {
		return "", fmt.Errorf("client not connected")
	}

	code, err := s.client.PairPhone(context.Background(), phone, true, whatsmeow.PairClientChrome, "Chrome (Linux)")
	if err != nil {
		return "", err
	}

	return code, nil
}

// PrintQR connects and prints login QR codes until the channel closes.
func (s *Service) PrintQR() {
	if s.client.Store.ID == nil {
		qrChan, _ := s.client.GetQRChannel(context.Background())
		err := s.client.Connect()
		if err != nil {
			fmt.Println("Failed to connect for QR:", err)
			return
		}
		for evt := range qrChan {
			if evt.Event == "code" {
				fmt.Println("QR Code:", evt.Code)
				qrterminal.GenerateHalfBlock(evt.Code, qrterminal.L, os.Stdout)
			} else {
				fmt.Println("Login event:", evt.Event)
			}
		}
	}
}

func (s *Service) handleMessage(ctx context.Context, evt *events.Message) {
	if !s.accepts(evt.Info) {
		return
	}

	msg := messageText(evt.Message)
	if msg == "" {
		return
	}

	name := evt.Info.PushName
	if name == "" {
		name = "there"
	}
	s.log.Debugf("Message from %s (%s): %s", name, evt.Info.Sender.User, msg)

	response, err := s.responder.Execute(ctx, name, msg)
	if err != nil {
		s.log.Errorf("Error handling message: %v", err)
		return
	}
	if response == "" {
		return
	}

	if delay := replyDelay(s.opts.ReplyDelayMinMs, s.opts.ReplyDelayMaxMs, rand.Intn); delay > 0 {
		if s.opts.ShowTyping {
			_ = s.client.SendChatPresence(ctx, evt.Info.Chat, types.ChatPresenceComposing, types.ChatPresenceMediaText)
		}
		time.Sleep(delay)
		if s.opts.ShowTyping {
			_ = s.client.SendChatPresence(ctx, evt.Info.Chat, types.ChatPresencePaused, types.ChatPresenceMediaText)
		}
	}

	if _, err := s.client.SendMessage(ctx, evt.Info.Chat, &waE2E.Message{Conversation: &response}); err != nil {
		s.log.Errorf("Failed to send response: %v", err)
	}
}

func (s *Service) accepts(info types.MessageInfo) bool {
	if info.IsFromMe {
		return false
	}
	return s.opts.GroupID == "" || info.Chat.String() == s.opts.GroupID
}

func messageText(m *waE2E.Message) string {
	if m == nil {
		return ""
	}
	if m.Conversation != nil {
		return *m.Conversation
	}
	if m.ExtendedTextMessage != nil && m.ExtendedTextMessage.Text != nil {
		return *m.ExtendedTextMessage.Text
	}
	return ""
}

// replyDelay picks a delay in [min, max] milliseconds; max <= min means a
// fixed delay of min.
func replyDelay(minMs, maxMs int, intn func(int) int) time.Duration {
	delayMs := minMs
	if maxMs > minMs {
		delayMs = minMs + intn(maxMs-minMs+1)
	}
	if delayMs <= 0 {
		return 0
	}
	return time.Duration(delayMs) * time.Millisecond
}
