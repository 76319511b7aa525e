package httpx

type ctxKey string

const (
	// CtxKeyAccountID carries the authenticated account id.
	CtxKeyAccountID ctxKey = "account_id"
	// CtxKeyEmail carries the authenticated account email.
	CtxKeyEmail ctxKey = "email"
)
