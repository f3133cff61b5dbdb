package cont

import "context"

type ctxKey string

const visitorKey ctxKey = "visitor"

func PutVisitor(ctx context.Context, visitor string) context.Context {
	return context.WithValue(ctx, visitorKey, visitor)
}

func GetVisitor(ctx context.Context) string {
	v, _ := ctx.Value(visitorKey).(string)
	return v
}
