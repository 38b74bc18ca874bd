package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gambit-gg/gambit/internal/storage"
	"github.com/gambit-gg/gambit/pkg/logging"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type server struct {
	address  string
	upgrader websocket.Upgrader

	config      Config
	coordinator *Coordinator
}

func NewServer() *server {
	cfg := NewConfig()
	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.TODO(),
		awsConfig.WithRegion(cfg.AwsRegion),
	)
	if err != nil {
		panic(err)
	}
	storageClient := storage.NewClient(
		dynamodb.NewFromConfig(awsCfg),
		storage.Config{
			GameRecordsTableName: aws.String(cfg.GameRecordsTableName),
			UserStatsTableName:   aws.String(cfg.UserStatsTableName),
		},
	)
	return &server{
		address: "0.0.0.0:" + cfg.Port,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins
			},
		},
		config:      cfg,
		coordinator: NewCoordinator(storageClient, time.Now),
	}
}

// Start method    starts the game server
func (s *server) Start() error {
	http.HandleFunc("/play", func(w http.ResponseWriter, r *http.Request) {
		identity, err := s.auth(r)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(err.Error()))
			return
		}

		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.Error(
				"failed to upgrade connection",
				zap.String("error", err.Error()),
			)
			return
		}
		defer conn.Close()

		client := s.coordinator.Connect(conn, identity)
		logging.Info("player connected",
			zap.String("user_id", identity.UserId),
			zap.String("remote_address", conn.RemoteAddr().String()),
		)

		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				s.coordinator.HandleDisconnect(client)
				logging.Info(
					"connection closed",
					zap.String("user_id", identity.UserId),
					zap.Error(err),
				)
				break
			}

			payload := payload{}
			if err := json.Unmarshal(message, &payload); err != nil {
				logging.Info("malformed payload dropped",
					zap.String("user_id", identity.UserId),
				)
				continue
			}
			s.handleMessage(client, payload)
		}
	})
	logging.Info("websocket server started", zap.String("port", s.config.Port))
	return http.ListenAndServe(s.address, nil)
}

func (s *server) handleMessage(client *Client, p payload) {
	switch p.Type {
	case msgJoinGame:
		s.coordinator.HandleJoin(client)
	case msgMakeMove:
		var req makeMoveRequest
		if err := json.Unmarshal(p.Data, &req); err != nil {
			logging.Info("malformed move dropped", zap.String("user_id", client.identity.UserId))
			return
		}
		s.coordinator.HandleMove(client, req)
	case msgChat:
		var req chatRequest
		if err := json.Unmarshal(p.Data, &req); err != nil {
			return
		}
		s.coordinator.HandleChat(client, req)
	case msgResign:
		var req resignRequest
		if err := json.Unmarshal(p.Data, &req); err != nil {
			return
		}
		s.coordinator.HandleResign(client, req)
	default:
		logging.Info("invalid payload type:", zap.String("type", p.Type))
	}
}
