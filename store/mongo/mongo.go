// Package mongo is the MongoDB backend. Documents are stored with
// driver-assigned ObjectIDs and read back with the ids as hex strings.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/junaidrashid-git/bistro-boss-api/models"
	"github.com/junaidrashid-git/bistro-boss-api/store"
)

const (
	menuCollection    = "menu"
	reviewCollection  = "reviews"
	cartCollection    = "carts"
	userCollection    = "users"
	paymentCollection = "payments"
)

type Store struct {
	client   *mongo.Client
	menu     *mongo.Collection
	reviews  *mongo.Collection
	carts    *mongo.Collection
	users    *mongo.Collection
	payments *mongo.Collection
}

var _ store.Store = (*Store)(nil)

// Connect opens one pooled client for the process and pings the deployment.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := New(client, database)
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return s, nil
}

// ensureIndexes makes the users collection enforce one document per email.
func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_unique"),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}
	return nil
}

// New wraps an already connected client.
func New(client *mongo.Client, database string) *Store {
	db := client.Database(database)

	return &Store{
		client:   client,
		menu:     db.Collection(menuCollection),
		reviews:  db.Collection(reviewCollection),
		carts:    db.Collection(cartCollection),
		users:    db.Collection(userCollection),
		payments: db.Collection(paymentCollection),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	return findAll[models.User](ctx, s.users, bson.D{})
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &user, nil
}

func (s *Store) InsertUser(ctx context.Context, user *models.User) (models.InsertResult, error) {
	return insertOne(ctx, s.users, user, &user.ID)
}

func (s *Store) SetUserRole(ctx context.Context, id, role string) (models.UpdateResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.UpdateResult{}, err
	}

	res, err := s.users.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "role", Value: role}}}},
	)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("update user role: %w", err)
	}

	return models.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}, nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) (models.DeleteResult, error) {
	return deleteByID(ctx, s.users, id)
}

func (s *Store) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	return findAll[models.MenuItem](ctx, s.menu, bson.D{})
}

func (s *Store) InsertMenuItem(ctx context.Context, item *models.MenuItem) (models.InsertResult, error) {
	return insertOne(ctx, s.menu, item, &item.ID)
}

func (s *Store) DeleteMenuItem(ctx context.Context, id string) (models.DeleteResult, error) {
	return deleteByID(ctx, s.menu, id)
}

func (s *Store) ListReviews(ctx context.Context) ([]models.Review, error) {
	return findAll[models.Review](ctx, s.reviews, bson.D{})
}

func (s *Store) ListCartItems(ctx context.Context, email string) ([]models.CartItem, error) {
	return findAll[models.CartItem](ctx, s.carts, bson.D{{Key: "email", Value: email}})
}

func (s *Store) InsertCartItem(ctx context.Context, item *models.CartItem) (models.InsertResult, error) {
	return insertOne(ctx, s.carts, item, &item.ID)
}

func (s *Store) DeleteCartItem(ctx context.Context, id string) (models.DeleteResult, error) {
	return deleteByID(ctx, s.carts, id)
}

func (s *Store) DeleteCartItems(ctx context.Context, ids []string) (models.DeleteResult, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := objectID(id)
		if err != nil {
			return models.DeleteResult{}, err
		}
		oids = append(oids, oid)
	}

	res, err := s.carts.DeleteMany(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: oids}}}})
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("delete cart items: %w", err)
	}

	return models.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func (s *Store) InsertPayment(ctx context.Context, payment *models.Payment) (models.InsertResult, error) {
	return insertOne(ctx, s.payments, payment, &payment.ID)
}

func (s *Store) ListPayments(ctx context.Context, email string) ([]models.Payment, error) {
	return findAll[models.Payment](ctx, s.payments, bson.D{{Key: "email", Value: email}},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
}

func (s *Store) Counts(ctx context.Context) (models.Counts, error) {
	var (
		counts models.Counts
		err    error
	)

	if counts.Users, err = s.users.EstimatedDocumentCount(ctx); err != nil {
		return models.Counts{}, fmt.Errorf("count users: %w", err)
	}
	if counts.MenuItems, err = s.menu.EstimatedDocumentCount(ctx); err != nil {
		return models.Counts{}, fmt.Errorf("count menu: %w", err)
	}
	if counts.Payments, err = s.payments.EstimatedDocumentCount(ctx); err != nil {
		return models.Counts{}, fmt.Errorf("count payments: %w", err)
	}

	return counts, nil
}

func (s *Store) Revenue(ctx context.Context) (float64, error) {
	cursor, err := s.payments.Aggregate(ctx, revenuePipeline())
	if err != nil {
		return 0, fmt.Errorf("aggregate revenue: %w", err)
	}

	var rows []struct {
		Revenue float64 `bson:"revenue"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("decode revenue: %w", err)
	}

	// no payments means no group row
	if len(rows) == 0 {
		return 0, nil
	}

	return rows[0].Revenue, nil
}

func (s *Store) OrderStats(ctx context.Context) ([]models.CategoryStats, error) {
	cursor, err := s.payments.Aggregate(ctx, orderStatsPipeline())
	if err != nil {
		return nil, fmt.Errorf("aggregate order stats: %w", err)
	}

	result := make([]models.CategoryStats, 0)
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decode order stats: %w", err)
	}

	return result, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.D, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", coll.Name(), err)
	}

	result := make([]T, 0)
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}

	return result, nil
}

// insertOne writes doc and stores the generated id back into *id.
func insertOne(ctx context.Context, coll *mongo.Collection, doc any, id *string) (models.InsertResult, error) {
	res, err := coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return models.InsertResult{}, fmt.Errorf("insert into %s: %w", coll.Name(), store.ErrDuplicate)
	}
	if err != nil {
		return models.InsertResult{}, fmt.Errorf("insert into %s: %w", coll.Name(), err)
	}

	*id = hexID(res.InsertedID)

	return models.InsertResult{Acknowledged: true, InsertedID: *id}, nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id string) (models.DeleteResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.DeleteResult{}, err
	}

	res, err := coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("delete from %s: %w", coll.Name(), err)
	}

	return models.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", store.ErrInvalidID, id)
	}
	return oid, nil
}

func hexID(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}
