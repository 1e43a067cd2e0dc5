package errcode

type Code string

const (
	InvalidLocation Code = "INVALID_LOCATION"
	ResolveFailed   Code = "RESOLVE_FAILED"
	TenantNotFound  Code = "TENANT_NOT_FOUND"

	BadRequest Code = "BAD_REQUEST"
	Internal   Code = "INTERNAL_ERROR"
)
