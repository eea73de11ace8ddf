package db

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"debatebot/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps each conversation as a single document with the message
// history embedded, so appending a turn is one UpdateOne and the user+bot
// pair lands atomically.
type MongoStore struct {
	client        *mongo.Client
	conversations *mongo.Collection
}

// extractDBName parses the database name from the URI, defaulting to "debatebot"
func extractDBName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "debatebot"
	}
	if u.Path != "" && u.Path != "/" {
		return u.Path[1:] // Trim leading '/'
	}
	return "debatebot"
}

// ConnectMongo establishes a connection to MongoDB using the provided URI
func ConnectMongo(uri string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Verify connection with a ping
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	dbName := extractDBName(uri)
	log.Printf("Using database: %s", dbName)

	return &MongoStore{
		client:        client,
		conversations: client.Database(dbName).Collection("conversations"),
	}, nil
}

func (s *MongoStore) Create(ctx context.Context, conv *models.Conversation) (string, error) {
	if conv.ID.IsZero() {
		conv.ID = primitive.NewObjectID()
	}
	if conv.CreatedAt == 0 {
		conv.CreatedAt = time.Now().Unix()
	}
	if conv.Status == "" {
		conv.Status = models.StatusActive
	}
	if conv.Messages == nil {
		conv.Messages = []models.Message{}
	}

	result, err := s.conversations.InsertOne(ctx, conv)
	if err != nil {
		return "", err
	}
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type")
	}
	return id.Hex(), nil
}

func (s *MongoStore) Load(ctx context.Context, id string) (*models.Conversation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var conv models.Conversation
	err = s.conversations.FindOne(ctx, bson.M{"_id": oid}).Decode(&conv)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &conv, nil
}

// AppendTurn pushes the user and bot messages in one update, filtered on
// active status so closed conversations reject writes.
func (s *MongoStore) AppendTurn(ctx context.Context, id string, user, bot models.Message) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	filter := bson.M{"_id": oid, "status": models.StatusActive}
	update := bson.M{"$push": bson.M{"messages": bson.M{"$each": []models.Message{user, bot}}}}

	result, err := s.conversations.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := s.conversations.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": models.StatusClosed}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Disconnect releases the underlying client.
func (s *MongoStore) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
