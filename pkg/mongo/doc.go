// Package mongo manages the MongoDB connection used by the invitation store.
//
// Connection settings come from MONGODB_* environment variables (see Config).
// New retries the initial connect and ping, so the service survives a
// database that starts a few seconds after it.
//
//	client, coll, err := mongo.NewCollection(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Disconnect(context.Background())
//
//	store := invitation.NewMongoStore(coll)
//	probe := mongo.Healthcheck(client)
//
// Failures wrap ErrFailedToConnectToMongo and ErrHealthcheckFailed and can
// be matched with errors.Is.
package mongo
