package repository

import (
	"context"
	"fmt"
	"time"

	"ganak-service/src/database"
	"ganak-service/src/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ChatRepository struct {
	store
}

func NewChatRepository(conn *database.Connection) *ChatRepository {
	return &ChatRepository{store{conn: conn, name: ChatsCollection}}
}

func (r *ChatRepository) EnsureIndexes(ctx context.Context) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "updated_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("chats indexes: %w", err)
	}
	return nil
}

func (r *ChatRepository) Create(ctx context.Context, chat *models.Chat) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	chat.ID = primitive.NewObjectID()
	chat.CreatedAt, chat.UpdatedAt = now, now
	if chat.Messages == nil {
		chat.Messages = []models.ChatMessage{}
	}
	_, err = coll.InsertOne(ctx, chat)
	return translate(err)
}

// List returns the user's chats, most recently active first, without messages.
func (r *ChatRepository) List(ctx context.Context, userID primitive.ObjectID) ([]models.Chat, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}
	cur, err := coll.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().
			SetSort(bson.D{{Key: "updated_at", Value: -1}}).
			SetProjection(bson.M{"messages": 0}),
	)
	if err != nil {
		return nil, translate(err)
	}
	chats := []models.Chat{}
	if err := cur.All(ctx, &chats); err != nil {
		return nil, translate(err)
	}
	return chats, nil
}

func (r *ChatRepository) Get(ctx context.Context, userID, chatID primitive.ObjectID) (*models.Chat, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}
	var chat models.Chat
	if err := coll.FindOne(ctx, bson.M{"_id": chatID, "user_id": userID}).Decode(&chat); err != nil {
		return nil, translate(err)
	}
	return &chat, nil
}

func (r *ChatRepository) AppendMessage(ctx context.Context, userID, chatID primitive.ObjectID, msg models.ChatMessage) (*models.Chat, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}
	var chat models.Chat
	err = coll.FindOneAndUpdate(ctx,
		bson.M{"_id": chatID, "user_id": userID},
		bson.M{
			"$push": bson.M{"messages": msg},
			"$set":  bson.M{"updated_at": msg.CreatedAt},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&chat)
	if err != nil {
		return nil, translate(err)
	}
	return &chat, nil
}

func (r *ChatRepository) Delete(ctx context.Context, userID, chatID primitive.ObjectID) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}
	res, err := coll.DeleteOne(ctx, bson.M{"_id": chatID, "user_id": userID})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByUser removes every chat owned by the user.
func (r *ChatRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}
	_, err = coll.DeleteMany(ctx, bson.M{"user_id": userID})
	return translate(err)
}
