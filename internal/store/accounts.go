package store

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/htfilia/tradingboard/internal/trading"
)

// AccountRepository implements trading.AccountRepository (and doubles as
// auth.AccountOpener) on the "accounts" collection. CashBalance is stored
// as a decimal string rather than a native BSON numeric type, since the
// mongo driver has no built-in shopspring/decimal codec.
type AccountRepository struct {
	collection *mongo.Collection
}

// NewAccountRepository wraps a database's "accounts" collection.
func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{collection: db.Collection("accounts")}
}

type accountDoc struct {
	UserID        string    `bson:"_id"`
	CashBalance   string    `bson:"cash_balance"`
	BaseCurrency  string    `bson:"base_currency"`
	MarginAllowed bool      `bson:"margin_allowed"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

// Get returns (nil, nil) if the user has no account.
func (r *AccountRepository) Get(ctx context.Context, userID string) (*trading.Account, error) {
	var doc accountDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	balance, err := decimal.NewFromString(doc.CashBalance)
	if err != nil {
		return nil, fmt.Errorf("parse cash_balance: %w", err)
	}
	return &trading.Account{
		UserID:        doc.UserID,
		CashBalance:   balance,
		BaseCurrency:  doc.BaseCurrency,
		MarginAllowed: doc.MarginAllowed,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}, nil
}

// Update persists the account's current state.
func (r *AccountRepository) Update(ctx context.Context, a *trading.Account) error {
	filter := bson.M{"_id": a.UserID}
	update := bson.M{"$set": bson.M{
		"cash_balance":   a.CashBalance.String(),
		"base_currency":  a.BaseCurrency,
		"margin_allowed": a.MarginAllowed,
		"updated_at":     a.UpdatedAt,
	}}
	if _, err := r.collection.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return nil
}

// OpenAccount implements auth.AccountOpener: creates the 1:1 cash account
// for a newly registered user.
func (r *AccountRepository) OpenAccount(ctx context.Context, userID string, startingBalance decimal.Decimal, baseCurrency string, marginAllowed bool) error {
	now := time.Now()
	doc := accountDoc{
		UserID:        userID,
		CashBalance:   startingBalance.String(),
		BaseCurrency:  baseCurrency,
		MarginAllowed: marginAllowed,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("open account: %w", err)
	}
	return nil
}
