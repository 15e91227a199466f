package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/apiwiz/task-system/internal/core/domain"
	"github.com/apiwiz/task-system/internal/core/query"
)

const collectionTasks = "tasks"

type TaskRepository struct {
	col *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{col: db.Collection(collectionTasks)}
}

type mongoTask struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	StartDate   time.Time          `bson:"start_date"`
	DueDate     time.Time          `bson:"due_date"`
	Status      string             `bson:"status"`
	UserID      string             `bson:"user_id"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoTask(t)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	created := *t
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}

	var mt mongoTask
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return toDomainTask(&mt), nil
}

func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(t.ID)
	if err != nil {
		return domain.ErrTaskNotFound
	}

	update := bson.M{"$set": bson.M{
		"title":       t.Title,
		"description": t.Description,
		"start_date":  t.StartDate,
		"due_date":    t.DueDate,
		"status":      string(t.Status),
		"updated_at":  t.UpdatedAt,
	}}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTaskNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// Query translates the composed predicates into a bson filter, applies the
// sort with an _id ascending tiebreak for stable pagination, and returns one
// page plus the total match count.
func (r *TaskRepository) Query(ctx context.Context, q query.Query) (*query.Page[domain.Task], error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := toMongoFilter(q.Predicates)
	if err != nil {
		return nil, err
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	dir := 1
	if q.Sort.Direction == query.Desc {
		dir = -1
	}
	sort := bson.D{{Key: mongoField(q.Sort.Field), Value: dir}}
	if q.Sort.Field != query.FieldID {
		sort = append(sort, bson.E{Key: "_id", Value: 1})
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(int64(q.Page.Index) * int64(q.Page.Size)).
		SetLimit(int64(q.Page.Size))

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoTask
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	items := make([]domain.Task, len(docs))
	for i := range docs {
		items[i] = *toDomainTask(&docs[i])
	}

	return query.NewPage(items, q.Page.Index, q.Page.Size, total), nil
}

func toMongoFilter(predicates []query.Predicate) (bson.M, error) {
	filter := bson.M{}
	for _, p := range predicates {
		field := mongoField(p.Field)
		switch p.Op {
		case query.OpEquals:
			filter[field] = p.Value
		case query.OpContains:
			s, _ := p.Value.(string)
			// Quote the value: this is a substring match, not a user-supplied pattern.
			filter[field] = primitive.Regex{Pattern: regexp.QuoteMeta(s)}
		case query.OpOnDate:
			day, ok := p.Value.(time.Time)
			if !ok {
				return nil, fmt.Errorf("predicate %s: value is not a time", p.Field)
			}
			filter[field] = bson.M{"$gte": day, "$lt": day.AddDate(0, 0, 1)}
		default:
			return nil, fmt.Errorf("predicate %s: unsupported operator %q", p.Field, p.Op)
		}
	}
	return filter, nil
}

func mongoField(field string) string {
	if field == query.FieldID {
		return "_id"
	}
	return field
}

// EnsureIndexes creates the indexes backing the list filters.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "due_date", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func toMongoTask(t *domain.Task) mongoTask {
	return mongoTask{
		Title:       t.Title,
		Description: t.Description,
		StartDate:   t.StartDate.UTC(),
		DueDate:     t.DueDate.UTC(),
		Status:      string(t.Status),
		UserID:      t.UserID,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
}

func toDomainTask(mt *mongoTask) *domain.Task {
	status, _ := domain.ParseTaskStatus(mt.Status)
	return &domain.Task{
		ID:          mt.ID.Hex(),
		Title:       mt.Title,
		Description: mt.Description,
		StartDate:   mt.StartDate.UTC(),
		DueDate:     mt.DueDate.UTC(),
		Status:      status,
		UserID:      mt.UserID,
		CreatedAt:   mt.CreatedAt.UTC(),
		UpdatedAt:   mt.UpdatedAt.UTC(),
	}
}
