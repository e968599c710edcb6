// Package errors defines pooly's own error taxonomy (storage, secrets, auth,
// query, wildcard, rate-limit, initialization), each implementing CodedError
// so the HTTP boundary maps them to a status without a type switch per
// concrete type.
package errors

import (
	"fmt"

	"github.com/mrrabbitte/pooly/internal/domain/versioning"
)

// CodedError is implemented by every taxonomy error below.
type CodedError interface {
	error
	Code() int
}

// --- Storage -----------------------------------------------------------

// StorageError wraps failures from the KV/DAO storage pipeline.
type StorageError struct {
	Kind string
	Old  *versioning.VersionHeader
	New  *versioning.VersionHeader
	Err  error
}

const (
	StorageAlreadyExists              = "AlreadyExists"
	StorageCouldNotFindValueToUpdate  = "CouldNotFindValueToUpdate"
	StorageOptimisticLocking          = "OptimisticLocking"
	StorageRetrieval                  = "Retrieval"
	StorageSerde                      = "Serde"
	StorageUtf8                       = "Utf8"
	StorageTransaction                = "Transaction"
	StorageSecrets                    = "Secrets"
)

func (e *StorageError) Error() string {
	if e.Kind == StorageOptimisticLocking && e.Old != nil && e.New != nil {
		return fmt.Sprintf("optimistic locking conflict: stored %+v, supplied %+v", *e.Old, *e.New)
	}

	if e.Err != nil {
		return fmt.Sprintf("storage error (%s): %v", e.Kind, e.Err)
	}

	return fmt.Sprintf("storage error: %s", e.Kind)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Code maps the storage error kind to an HTTP status.
func (e *StorageError) Code() int {
	switch e.Kind {
	case StorageAlreadyExists:
		return 409
	case StorageCouldNotFindValueToUpdate:
		return 404
	case StorageOptimisticLocking:
		return 409
	case StorageSecrets:
		return 401
	default:
		return 500
	}
}

// NewAlreadyExists builds the AlreadyExists storage error.
func NewAlreadyExists() *StorageError {
	return &StorageError{Kind: StorageAlreadyExists}
}

// NewCouldNotFindValueToUpdate builds the not-found-for-update storage error.
func NewCouldNotFindValueToUpdate() *StorageError {
	return &StorageError{Kind: StorageCouldNotFindValueToUpdate}
}

// NewOptimisticLocking builds the optimistic-locking conflict error.
func NewOptimisticLocking(old, new versioning.VersionHeader) *StorageError {
	return &StorageError{Kind: StorageOptimisticLocking, Old: &old, New: &new}
}

// WrapRetrieval wraps a lower-level retrieval error (bbolt I/O).
func WrapRetrieval(err error) *StorageError {
	return &StorageError{Kind: StorageRetrieval, Err: err}
}

// WrapSerde wraps a (de)serialization error (msgpack).
func WrapSerde(err error) *StorageError {
	return &StorageError{Kind: StorageSerde, Err: err}
}

// WrapUtf8 wraps a UTF-8 validation error.
func WrapUtf8(err error) *StorageError {
	return &StorageError{Kind: StorageUtf8, Err: err}
}

// WrapTransaction wraps a bbolt transaction error.
func WrapTransaction(err error) *StorageError {
	return &StorageError{Kind: StorageTransaction, Err: err}
}

// WrapSecrets widens a secrets error into a storage error.
func WrapSecrets(err error) *StorageError {
	return &StorageError{Kind: StorageSecrets, Err: err}
}

// --- Secrets -------------------------------------------------------------

// SecretsError records a SecretsManager failure.
type SecretsError struct {
	Kind string
	Err  error
}

const (
	SecretsAlreadyInitialized = "AlreadyInitialized"
	SecretsAlreadyUnsealed    = "AlreadyUnsealed"
	SecretsSealed             = "Sealed"
	SecretsLockError          = "LockError"
	SecretsFileReadError      = "FileReadError"
	SecretsMasterKeyShare     = "MasterKeyShareError"
	SecretsAeadError          = "AeadError"
	SecretsSerdeError         = "SerdeError"
	SecretsUnspecified        = "Unspecified"
)

func (e *SecretsError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("secrets error (%s): %v", e.Kind, e.Err)
	}

	return fmt.Sprintf("secrets error: %s", e.Kind)
}

func (e *SecretsError) Unwrap() error { return e.Err }

// Code maps the secrets error kind to an HTTP status. Every secrets failure
// observed on the query path is an authentication concern from the caller's
// point of view (the backend connection could not be unlocked).
func (e *SecretsError) Code() int {
	switch e.Kind {
	case SecretsAlreadyInitialized, SecretsAlreadyUnsealed:
		return 409
	default:
		return 401
	}
}

func NewSecretsErr(kind string, err error) *SecretsError {
	return &SecretsError{Kind: kind, Err: err}
}

// --- Auth ------------------------------------------------------------------

// AuthError records a bearer-token verification or access failure.
type AuthError struct {
	Kind string
	Err  error
}

const (
	AuthMissingAuthHeader   = "MissingAuthHeader"
	AuthInvalidHeader       = "InvalidHeader"
	AuthInvalidClaims       = "InvalidClaims"
	AuthInvalidToken        = "InvalidToken"
	AuthUnknownKey          = "UnknownKey"
	AuthUnsupportedAlg      = "UnsupportedAlgorithm"
	AuthNoneAlgorithm       = "NoneAlgorithmProvided"
	AuthHmacError           = "HmacError"
	AuthPemError            = "PemError"
	AuthVerificationError   = "VerificationError"
	AuthForbidden           = "Forbidden"
	AuthMissingAuthService  = "MissingAuthService"
)

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth error (%s): %v", e.Kind, e.Err)
	}

	return fmt.Sprintf("auth error: %s", e.Kind)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Code maps the auth error kind to an HTTP status.
func (e *AuthError) Code() int {
	switch e.Kind {
	case AuthForbidden:
		return 403
	default:
		return 401
	}
}

func NewAuthErr(kind string, err error) *AuthError {
	return &AuthError{Kind: kind, Err: err}
}

// --- Query -----------------------------------------------------------------

// QueryError records a query-execution failure.
type QueryError struct {
	Kind     string
	Message  string
	Expected int
	Actual   int
	Err      error
}

const (
	QueryUnknownDatabaseConnection = "UnknownDatabaseConnection"
	QueryPoolError                 = "PoolError"
	QueryPostgres                  = "Postgres"
	QueryCreatePool                = "CreatePool"
	QueryWrongNumParams            = "WrongNumParams"
	QueryUnknownPostgresValueType  = "UnknownPostgresValueType"
	QueryForbiddenConnectionId     = "ForbiddenConnectionId"
	QueryConnectionConfig          = "ConnectionConfig"
	QueryStorage                   = "Storage"
	QueryReadUtf                   = "ReadUtf"
)

func (e *QueryError) Error() string {
	if e.Kind == QueryWrongNumParams {
		return fmt.Sprintf("expected %d argument(s), got %d", e.Expected, e.Actual)
	}

	if e.Message != "" {
		return e.Message
	}

	if e.Err != nil {
		return fmt.Sprintf("query error (%s): %v", e.Kind, e.Err)
	}

	return fmt.Sprintf("query error: %s", e.Kind)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Code maps the query error kind to an HTTP status.
func (e *QueryError) Code() int {
	switch e.Kind {
	case QueryForbiddenConnectionId:
		return 403
	case QueryUnknownDatabaseConnection, QueryWrongNumParams:
		return 400
	case QueryConnectionConfig:
		if codedErr, ok := e.Err.(CodedError); ok {
			return codedErr.Code()
		}

		return 500
	default:
		return 500
	}
}

func NewUnknownDatabaseConnection(connectionID string) *QueryError {
	return &QueryError{Kind: QueryUnknownDatabaseConnection, Message: "unknown database connection: " + connectionID}
}

func NewForbiddenConnectionId(connectionID string) *QueryError {
	return &QueryError{Kind: QueryForbiddenConnectionId, Message: "connection id not allowed: " + connectionID}
}

func NewWrongNumParams(expected, actual int) *QueryError {
	return &QueryError{Kind: QueryWrongNumParams, Expected: expected, Actual: actual}
}

func NewUnknownPostgresValueType(oid uint32) *QueryError {
	return &QueryError{Kind: QueryUnknownPostgresValueType, Message: fmt.Sprintf("unknown postgres value type, oid: %d", oid)}
}

func WrapPoolError(err error) *QueryError {
	return &QueryError{Kind: QueryPoolError, Err: err}
}

func WrapPostgresError(err error) *QueryError {
	return &QueryError{Kind: QueryPostgres, Err: err}
}

func WrapCreatePoolError(err error) *QueryError {
	return &QueryError{Kind: QueryCreatePool, Err: err}
}

func WrapConnectionConfigError(err error) *QueryError {
	return &QueryError{Kind: QueryConnectionConfig, Err: err}
}

func WrapStorageError(err error) *QueryError {
	return &QueryError{Kind: QueryStorage, Err: err}
}

func WrapReadUtfError(err error) *QueryError {
	return &QueryError{Kind: QueryReadUtf, Err: err}
}

// --- Wildcard ----------------------------------------------------------

// WildcardError records a WildcardPattern parse failure.
type WildcardError struct {
	Kind    string
	Pattern string
}

const (
	WildcardNoStars            = "NoStars"
	WildcardTooManyStars       = "TooManyStars"
	WildcardUnsupportedPattern = "UnsupportedPattern"
	WildcardInvalidCharacters  = "InvalidCharacters"
)

func (e *WildcardError) Error() string {
	return fmt.Sprintf("wildcard pattern error (%s): %q", e.Kind, e.Pattern)
}

// Code always maps to 400: every wildcard error originates from a caller-
// supplied pattern string at admin-entry creation time.
func (e *WildcardError) Code() int { return 400 }

func NewWildcardErr(kind, pattern string) *WildcardError {
	return &WildcardError{Kind: kind, Pattern: pattern}
}

// --- Rate limit ----------------------------------------------------------

// RateLimitError records a rate limiter rejection or lock failure.
type RateLimitError struct {
	Kind             string
	Threshold        uint32
	PeriodMillis     uint64
}

const (
	RateLimitTooManyRequests = "TooManyRequests"
	RateLimitPoisonedLock    = "PoisonedLock"
)

func (e *RateLimitError) Error() string {
	if e.Kind == RateLimitTooManyRequests {
		return fmt.Sprintf("too many requests: threshold %d per %dms", e.Threshold, e.PeriodMillis)
	}

	return "rate limiter lock poisoned"
}

// Code maps to 429 (too many requests) for the rate limit kind, 500 otherwise.
func (e *RateLimitError) Code() int {
	if e.Kind == RateLimitTooManyRequests {
		return 429
	}

	return 500
}

func NewTooManyRequests(threshold uint32, periodMillis uint64) *RateLimitError {
	return &RateLimitError{Kind: RateLimitTooManyRequests, Threshold: threshold, PeriodMillis: periodMillis}
}

// --- Initialization ------------------------------------------------------

// InitializationError records a bootstrap failure.
type InitializationError struct {
	Kind string
	Err  error
}

const (
	InitTooManyShares    = "TooManyShares"
	InitSecrets          = "Secrets"
	InitStorage          = "Storage"
	InitAuthClearError   = "AuthClearError"
)

func (e *InitializationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("initialization error (%s): %v", e.Kind, e.Err)
	}

	return fmt.Sprintf("initialization error: %s", e.Kind)
}

func (e *InitializationError) Unwrap() error { return e.Err }

// Code maps the initialization error kind to an HTTP status.
func (e *InitializationError) Code() int {
	switch e.Kind {
	case InitTooManyShares:
		return 400
	default:
		return 500
	}
}

func NewTooManyShares() *InitializationError {
	return &InitializationError{Kind: InitTooManyShares}
}

func WrapInitSecrets(err error) *InitializationError {
	return &InitializationError{Kind: InitSecrets, Err: err}
}

func WrapInitStorage(err error) *InitializationError {
	return &InitializationError{Kind: InitStorage, Err: err}
}

func WrapAuthClearError(err error) *InitializationError {
	return &InitializationError{Kind: InitAuthClearError, Err: err}
}

// ErrorType reports the taxonomy kind tag carried by err, for surfacing in
// a query ErrorResponse's error_type field. Errors outside the taxonomy
// report "Internal".
func ErrorType(err error) string {
	switch e := err.(type) {
	case *StorageError:
		return e.Kind
	case *SecretsError:
		return e.Kind
	case *AuthError:
		return e.Kind
	case *QueryError:
		return e.Kind
	case *WildcardError:
		return e.Kind
	case *RateLimitError:
		return e.Kind
	case *InitializationError:
		return e.Kind
	default:
		return "Internal"
	}
}
