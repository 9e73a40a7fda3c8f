package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clubhouse/club-cms/internal/domain"
	"github.com/clubhouse/club-cms/internal/persistence"
)

// AdminUserRepository defines persistence access for admin accounts.
type AdminUserRepository interface {
	Create(ctx context.Context, user *domain.AdminUser) error
	GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
	GetByID(ctx context.Context, id string) (*domain.AdminUser, error)
	List(ctx context.Context) ([]domain.AdminUser, error)
	Count(ctx context.Context) (int64, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// adminUserDocument keeps the field names of the existing users collection.
type adminUserDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Email     string             `bson:"email"`
	Pass      string             `bson:"pass"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d adminUserDocument) toDomain() *domain.AdminUser {
	return &domain.AdminUser{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.Pass,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type mongoAdminUserRepository struct {
	col *mongo.Collection
	now func() time.Time
}

// NewMongoAdminUserRepository stores admins in the users collection.
func NewMongoAdminUserRepository(db *mongo.Database) AdminUserRepository {
	return &mongoAdminUserRepository{col: db.Collection(persistence.CollectionUsers), now: time.Now}
}

func (r *mongoAdminUserRepository) Create(ctx context.Context, user *domain.AdminUser) error {
	now := r.now().UTC()
	doc := adminUserDocument{
		ID:        primitive.NewObjectID(),
		Email:     normalizeEmail(user.Email),
		Pass:      user.PasswordHash,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return translate(err)
	}
	*user = *doc.toDomain()
	return nil
}

func (r *mongoAdminUserRepository) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	return r.findOne(ctx, bson.M{"email": normalizeEmail(email)})
}

func (r *mongoAdminUserRepository) GetByID(ctx context.Context, id string) (*domain.AdminUser, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *mongoAdminUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.AdminUser, error) {
	var doc adminUserDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toDomain(), nil
}

func (r *mongoAdminUserRepository) List(ctx context.Context) ([]domain.AdminUser, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "email", Value: 1}}).
		SetProjection(bson.D{{Key: "pass", Value: 0}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []adminUserDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	users := make([]domain.AdminUser, 0, len(docs))
	for _, doc := range docs {
		users = append(users, *doc.toDomain())
	}
	return users, nil
}

func (r *mongoAdminUserRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *mongoAdminUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"pass":      passwordHash,
		"updatedAt": r.now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type pgAdminUserRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAdminUserRepository returns a Postgres-backed implementation.
func NewPostgresAdminUserRepository(pool *pgxpool.Pool) AdminUserRepository {
	return &pgAdminUserRepository{pool: pool}
}

func (r *pgAdminUserRepository) Create(ctx context.Context, user *domain.AdminUser) error {
	const query = `
        INSERT INTO admin_users (email, password_hash)
        VALUES ($1, $2)
        RETURNING id::text, email, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		normalizeEmail(user.Email),
		user.PasswordHash,
	).Scan(&user.ID, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	return translate(err)
}

func (r *pgAdminUserRepository) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	const query = `
        SELECT id::text, email, password_hash, created_at, updated_at
        FROM admin_users WHERE LOWER(email)=$1`

	return r.scanOne(ctx, query, normalizeEmail(email))
}

func (r *pgAdminUserRepository) GetByID(ctx context.Context, id string) (*domain.AdminUser, error) {
	const query = `
        SELECT id::text, email, password_hash, created_at, updated_at
        FROM admin_users WHERE id::text=$1`

	return r.scanOne(ctx, query, id)
}

func (r *pgAdminUserRepository) scanOne(ctx context.Context, query string, arg any) (*domain.AdminUser, error) {
	var user domain.AdminUser
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *pgAdminUserRepository) List(ctx context.Context) ([]domain.AdminUser, error) {
	const query = `
        SELECT id::text, email, created_at, updated_at
        FROM admin_users ORDER BY email`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.AdminUser, 0)
	for rows.Next() {
		var user domain.AdminUser
		if err := rows.Scan(&user.ID, &user.Email, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *pgAdminUserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admin_users`).Scan(&n)
	return n, err
}

func (r *pgAdminUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `
        UPDATE admin_users SET password_hash=$1, updated_at=NOW()
        WHERE id::text=$2`

	cmd, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
