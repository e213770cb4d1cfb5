package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/global"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/logger"
)

// EnsureIndexes tạo các index cần thiết cho từng collection.
// shortCode và brand name phải unique; các field tra cứu của correlation
// resolver (messageId, customerEmail+createdAt) cần index để cascade không chậm.
func EnsureIndexes(ctx context.Context, db *mongo.Database, colNames global.CollectionName) {
	log := logger.GetAppLogger()

	create := func(col string, models []mongo.IndexModel) {
		if _, err := db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			// Index đã tồn tại hoặc lỗi tạm thời — không chặn khởi động
			log.WithError(err).WithField("collection", col).Warn("Không tạo được index")
		}
	}

	create(colNames.Bookings, []mongo.IndexModel{
		{Keys: bson.D{{Key: "shortCode", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "customerEmail", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})

	create(colNames.Brands, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
	})

	create(colNames.EmailMessages, []mongo.IndexModel{
		{Keys: bson.D{{Key: "messageId", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "inReplyTo", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "bookingId", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "receivedAt", Value: -1}}},
	})

	create(colNames.ActivityEvents, []mongo.IndexModel{
		{Keys: bson.D{{Key: "bookingId", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "eventType", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
}
