package mongostore

import (
	"context"
	"errors"
	"regexp"
	"sort"

	"interntech/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// wrapError 将 MongoDB 错误转换为领域错误
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return storage.ErrDuplicate
	}
	return err
}

// findOne 查找单个文档，不存在时返回 storage.ErrNotFound
func findOne[T any](ctx context.Context, col *mongo.Collection, filter bson.D) (*T, error) {
	var result T
	if err := col.FindOne(ctx, filter).Decode(&result); err != nil {
		return nil, wrapError(err)
	}
	return &result, nil
}

// findMany 查找多个文档，结果为空时返回空切片而不是 nil
func findMany[T any](ctx context.Context, col *mongo.Collection, filter bson.D, opts ...options.Lister[options.FindOptions]) ([]*T, error) {
	cursor, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, wrapError(err)
	}
	defer cursor.Close(ctx)

	results := []*T{}
	for cursor.Next(ctx) {
		var item T
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		results = append(results, &item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func insertOne(ctx context.Context, col *mongo.Collection, doc any) error {
	_, err := col.InsertOne(ctx, doc)
	return wrapError(err)
}

// deleteByID 按 _id 删除
func deleteByID(ctx context.Context, col *mongo.Collection, id string) error {
	res, err := col.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return wrapError(err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// updateFields 按 _id 更新指定字段
func updateFields(ctx context.Context, col *mongo.Collection, id string, update bson.D) error {
	res, err := col.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: update}})
	if err != nil {
		return wrapError(err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// patchByID 以 $set 写入 fields，返回更新后的文档
//
// fields 只包含请求中出现的字段，未出现的字段保持原值。
func patchByID[T any](ctx context.Context, col *mongo.Collection, id string, fields bson.D) (*T, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var result T
	err := col.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: fields}}, opts).Decode(&result)
	if err != nil {
		return nil, wrapError(err)
	}
	return &result, nil
}

// setDoc 把 Patch.Fields() 转成有序的 bson.D
func setDoc(fields map[string]any, extra ...bson.E) bson.D {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := make(bson.D, 0, len(keys)+len(extra))
	for _, k := range keys {
		d = append(d, bson.E{Key: k, Value: fields[k]})
	}
	return append(d, extra...)
}

// listFilter 构造 category / 标题搜索过滤条件
func listFilter(opts storage.ListOptions, searchFields ...string) bson.D {
	filter := bson.D{}
	if opts.Category != "" {
		filter = append(filter, bson.E{Key: "category", Value: opts.Category})
	}
	if opts.Search != "" {
		re := bson.Regex{Pattern: regexp.QuoteMeta(opts.Search), Options: "i"}
		if len(searchFields) == 1 {
			filter = append(filter, bson.E{Key: searchFields[0], Value: re})
		} else {
			or := bson.A{}
			for _, f := range searchFields {
				or = append(or, bson.D{{Key: f, Value: re}})
			}
			filter = append(filter, bson.E{Key: "$or", Value: or})
		}
	}
	return filter
}

// findOptions 按 sortKey 倒序并应用分页
func findOptions(sortKey string, opts storage.ListOptions) *options.FindOptionsBuilder {
	fo := options.Find().SetSort(bson.D{{Key: sortKey, Value: -1}, {Key: "_id", Value: 1}})
	if opts.Limit > 0 {
		fo.SetLimit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		fo.SetSkip(int64(opts.Offset))
	}
	return fo
}
