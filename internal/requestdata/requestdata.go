package requestdata

import "context"

type requestDataKey struct{}

// Scheme names the credential that authenticated the request.
type Scheme string

const (
	SchemeBearer  Scheme = "bearer"
	SchemeSession Scheme = "session"
)

type RequestData struct {
	UserID      uint
	Username    string
	Email       string
	Scheme      Scheme
	TokenString string
	SessionID   string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// UserID returns the authenticated user id, or 0 when the request is anonymous.
func UserID(ctx context.Context) uint {
	if rd := GetRequestData(ctx); rd != nil {
		return rd.UserID
	}
	return 0
}
