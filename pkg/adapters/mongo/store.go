package mongo

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aretw0/intake/pkg/domain"
)

const (
	intakesCollection     = "intakes"
	submissionsCollection = "submissions"
)

// intakeDoc is the single document kept per intake id. Draft and published
// snapshot are separate fields, so a publish is one $set on one document.
type intakeDoc struct {
	ID        string           `bson:"_id"`
	Draft     *domain.Draft    `bson:"draft,omitempty"`
	Published *domain.Snapshot `bson:"published,omitempty"`
}

// Store implements ports.Store on MongoDB.
type Store struct {
	client      *driver.Client
	intakes     *driver.Collection
	submissions *driver.Collection
}

// Connect dials uri and returns a store on database dbName.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := driver.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return NewFromDatabase(client.Database(dbName)), nil
}

// NewFromDatabase creates a store on an existing database handle.
func NewFromDatabase(db *driver.Database) *Store {
	return &Store{
		client:      db.Client(),
		intakes:     db.Collection(intakesCollection),
		submissions: db.Collection(submissionsCollection),
	}
}

func (s *Store) LoadDraft(ctx context.Context, intakeID string) (domain.Draft, error) {
	doc, err := s.find(ctx, intakeID, "draft")
	if err != nil {
		if errors.Is(err, driver.ErrNoDocuments) {
			return domain.Draft{}, domain.ErrIntakeNotFound
		}
		return domain.Draft{}, err
	}
	if doc.Draft == nil {
		return domain.Draft{}, domain.ErrIntakeNotFound
	}
	return *doc.Draft, nil
}

func (s *Store) SaveDraft(ctx context.Context, draft domain.Draft) error {
	return s.set(ctx, draft.IntakeID, "draft", draft)
}

func (s *Store) LoadPublished(ctx context.Context, intakeID string) (domain.Snapshot, error) {
	doc, err := s.find(ctx, intakeID, "published")
	if err != nil {
		if errors.Is(err, driver.ErrNoDocuments) {
			return domain.Snapshot{}, domain.ErrNotPublished
		}
		return domain.Snapshot{}, err
	}
	if doc.Published == nil {
		return domain.Snapshot{}, domain.ErrNotPublished
	}
	return *doc.Published, nil
}

func (s *Store) SavePublished(ctx context.Context, snapshot domain.Snapshot) error {
	return s.set(ctx, snapshot.IntakeID, "published", snapshot)
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	raw, err := s.intakes.Distinct(ctx, "_id", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list intakes: %w", err)
	}
	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) SaveSubmission(ctx context.Context, sub domain.Submission) error {
	if _, err := s.submissions.InsertOne(ctx, sub); err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	return nil
}

// ListSubmissions returns submissions ordered by creation time.
func (s *Store) ListSubmissions(ctx context.Context, intakeID string) ([]domain.Submission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.submissions.Find(ctx, bson.M{"intakeId": intakeID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find submissions: %w", err)
	}
	defer cursor.Close(ctx)

	subs := []domain.Submission{}
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("failed to decode submissions: %w", err)
	}
	for i := range subs {
		for k, v := range subs[i].Answers {
			subs[i].Answers[k] = plain(v)
		}
	}
	return subs, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) find(ctx context.Context, intakeID, field string) (*intakeDoc, error) {
	opts := options.FindOne().SetProjection(bson.M{field: 1})

	var doc intakeDoc
	if err := s.intakes.FindOne(ctx, bson.M{"_id": intakeID}, opts).Decode(&doc); err != nil {
		if errors.Is(err, driver.ErrNoDocuments) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load intake %s: %w", intakeID, err)
	}
	return &doc, nil
}

func (s *Store) set(ctx context.Context, intakeID, field string, v any) error {
	_, err := s.intakes.UpdateOne(ctx,
		bson.M{"_id": intakeID},
		bson.M{"$set": bson.M{field: v}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save %s of intake %s: %w", field, intakeID, err)
	}
	return nil
}

// plain converts BSON container types decoded into interface values back to
// the map and slice types the rest of the engine expects.
func plain(v any) any {
	switch x := v.(type) {
	case primitive.A:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = plain(item)
		}
		return out
	case primitive.D:
		out := make(map[string]any, len(x))
		for _, e := range x {
			out[e.Key] = plain(e.Value)
		}
		return out
	case primitive.M:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = plain(item)
		}
		return out
	default:
		return v
	}
}
