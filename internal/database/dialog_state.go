package repository

import (
	"context"
	"time"

	"leadfunnel/funnel/flow"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SaveDialogState upserts a dialog session.
func (m *MongoDB) SaveDialogState(ctx context.Context, state *flow.State) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(dialogSessionsCollection)

	state.UpdatedAt = time.Now()

	filter := bson.D{{Key: "session_id", Value: state.SessionID}}
	update := bson.D{{Key: "$set", Value: state}}
	opts := options.Update().SetUpsert(true)

	_, err = collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// LoadDialogState returns nil, nil when the session does not exist.
func (m *MongoDB) LoadDialogState(ctx context.Context, sessionID string) (*flow.State, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(dialogSessionsCollection)

	var state flow.State
	err = collection.FindOne(ctx, bson.D{{Key: "session_id", Value: sessionID}}).Decode(&state)
	if err != nil {
		return nil, m.findError(err)
	}
	return &state, nil
}

func (m *MongoDB) DeleteDialogState(ctx context.Context, sessionID string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(dialogSessionsCollection)
	_, err = collection.DeleteOne(ctx, bson.D{{Key: "session_id", Value: sessionID}})
	return err
}
