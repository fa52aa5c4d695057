package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"time"

	"planhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var MongoClient *mongo.Client
var MongoDatabase *mongo.Database

const workspaceCollection = "workspace"

// extractDBName parses the database name from the URI, defaulting to "planhub"
func extractDBName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "planhub"
	}
	if u.Path != "" && u.Path != "/" {
		return u.Path[1:]
	}
	return "planhub"
}

// ConnectMongoDB establishes a connection to MongoDB using the provided URI
func ConnectMongoDB(uri string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	MongoClient = client
	dbName := extractDBName(uri)
	log.Printf("Using database: %s", dbName)

	MongoDatabase = client.Database(dbName)
	return nil
}

// workspaceDoc is one persisted key. The payload is the JSON-serialized
// value; keeping keys in separate documents means every write touches only
// its own key, so unrelated features never overwrite each other.
type workspaceDoc struct {
	Key     string `bson:"_id"`
	Payload string `bson:"payload"`
}

// MongoStore persists the workspace keys in a single MongoDB collection
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore() *MongoStore {
	return &MongoStore{coll: MongoDatabase.Collection(workspaceCollection)}
}

// loadKey unmarshals the payload stored under key into out. A missing key
// leaves out at its zero value. A corrupt payload is logged and treated as
// empty, never surfaced as an error.
func (s *MongoStore) loadKey(key string, out any) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var doc workspaceDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(doc.Payload), out); err != nil {
		log.Printf("Warning: corrupt payload under %s, falling back to empty: %v", key, err)
		return nil
	}
	return nil
}

func (s *MongoStore) saveKey(key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = s.coll.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$set": bson.M{"payload": string(payload)}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (s *MongoStore) LoadProject() (models.ProjectState, error) {
	var state models.ProjectState
	err := s.loadKey(KeyProjectState, &state)
	if state.Answers == nil {
		state.Answers = make(map[string]models.Answer)
	}
	return state, err
}

func (s *MongoStore) SaveProject(state models.ProjectState) error {
	return s.saveKey(KeyProjectState, state)
}

func (s *MongoStore) LoadReviews() ([]models.ReviewRecord, error) {
	var reviews []models.ReviewRecord
	err := s.loadKey(KeyPaperReviews, &reviews)
	return reviews, err
}

func (s *MongoStore) SaveReviews(reviews []models.ReviewRecord) error {
	return s.saveKey(KeyPaperReviews, reviews)
}

func (s *MongoStore) LoadPreferences() (models.Preferences, error) {
	var prefs models.Preferences
	err := s.loadKey(KeyPreferences, &prefs)
	return prefs, err
}

func (s *MongoStore) SavePreferences(prefs models.Preferences) error {
	return s.saveKey(KeyPreferences, prefs)
}
