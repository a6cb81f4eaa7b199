package echoapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/ArKa3003/arkamed/core"
	"github.com/ArKa3003/arkamed/core/access"
	"github.com/ArKa3003/arkamed/core/user"
	"github.com/ArKa3003/arkamed/storage/session"
)

var (
	appName                   string
	secretKey                 []byte
	jwtExpirationDelta        time.Duration
	jwtRefreshExpirationDelta time.Duration
	sessionCookieName         string
	sessionRotationDelta      time.Duration

	// appJWTConfig is the default JWT auth middleware config. API clients
	// authenticate with a Bearer header; the session cookie only drives the
	// page surface via the access middleware.
	appJWTConfig = middleware.JWTConfig{
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "userToken",
		Claims:        new(Claims),
	}
	contextUserKey = "user"
)

// configureAuth wires auth settings from config; called once at server setup.
func configureAuth(conf *core.Config) {
	appName = conf.AppName
	secretKey = conf.SecretKey
	jwtExpirationDelta = conf.Server.JWTExpirationDelta
	jwtRefreshExpirationDelta = conf.Server.JWTRefreshExpirationDelta
	sessionCookieName = conf.Server.SessionCookieName
	sessionRotationDelta = conf.Server.SessionRotationDelta

	appJWTConfig.SigningKey = conf.SecretKey
}

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt        int64  `json:"oriat,omitempty"`
	SessionID           string `json:"sid,omitempty"`
	Name                string `json:"name,omitempty"`
	Email               string `json:"email,omitempty"`
	Role                string `json:"role,omitempty"`
	OnboardingCompleted bool   `json:"onboarded,omitempty"`
}

func GetUserClaims(usr user.User, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	var oriat int64
	if len(origIat) > 0 {
		oriat = origIat[0]
	} else {
		oriat = nownix
	}

	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    appName,
			Subject:   usr.ID,
			Audience:  "ArkaMed",
			ExpiresAt: now.Add(jwtExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt:        oriat,
		SessionID:           uuid.New().String(),
		Name:                usr.Name,
		Email:               usr.Email,
		Role:                usr.Role,
		OnboardingCompleted: usr.OnboardingCompleted,
	}
	return claims
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(secretKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextUser(ctx echo.Context, svc user.Service, clms ...Claims) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}

	var claims Claims
	var err error
	if len(clms) > 0 {
		claims = clms[0]
	} else {
		claims, err = getContextClaims(ctx)
		if err != nil {
			return user.User{}, errors.Wrap(err, "getting context claims")
		}
	}

	usr, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return user.User{}, errors.Wrap(err, "finding user by ID")
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}

// sessionManager issues, resolves, rotates and revokes browser sessions. A
// session is a signed JWT carried in the session cookie or a Bearer header.
type sessionManager struct {
	conf    *core.Config
	userSvc user.Service
	store   session.Store
}

var _ access.SessionResolver = (*sessionManager)(nil)

func newSessionManager(conf *core.Config, userSvc user.Service, store session.Store) *sessionManager {
	return &sessionManager{conf: conf, userSvc: userSvc, store: store}
}

func (smgr *sessionManager) authenticate(ctx context.Context, email, pwd string) (*Claims, error) {
	usr, err := smgr.userSvc.GetByEmail(ctx, email)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return nil, errAuthenticationFailed
		}
		return nil, errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return nil, errAuthenticationFailed
	}
	if !usr.IsActive {
		return nil, errAccountDeactivated
	}
	if _, err = smgr.userSvc.SetLastLogin(ctx, usr); err != nil {
		return nil, errors.Wrap(err, "setting lastLogin")
	}

	claims := GetUserClaims(usr)
	if err = smgr.store.Touch(ctx, claims.SessionID, usr.ID, jwtRefreshExpirationDelta); err != nil {
		return nil, errors.Wrap(err, "registering session")
	}
	return claims, nil
}

// Resolve extracts and verifies the session from the cookie or the
// Authorization header; anonymous requests resolve to (nil, nil).
func (smgr *sessionManager) Resolve(ctx context.Context, r *http.Request) (*access.Session, error) {
	raw := rawToken(r)
	if raw == "" {
		return nil, nil
	}

	claims, err := parseToken(raw)
	if err != nil {
		return nil, errors.Wrap(err, "parsing session token")
	}

	revoked, err := smgr.store.IsRevoked(ctx, claims.SessionID)
	if err != nil {
		return nil, errors.Wrap(err, "checking session revocation")
	}
	if revoked {
		return nil, errSessionRevoked
	}

	return &access.Session{
		Subject:             claims.Subject,
		Email:               claims.Email,
		Role:                claims.Role,
		OnboardingCompleted: claims.OnboardingCompleted,
	}, nil
}

// rotateCookie reissues the session cookie when the current token has aged
// past the rotation delta. Best effort: failures leave the old cookie alone.
func (smgr *sessionManager) rotateCookie(ctx echo.Context) {
	cookie, err := ctx.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return
	}
	claims, err := parseToken(cookie.Value)
	if err != nil {
		return
	}
	if time.Since(time.Unix(claims.IssuedAt, 0)) < sessionRotationDelta {
		return
	}
	// refresh window check: rotation never extends a session past it
	if time.Now().After(time.Unix(claims.OrigIssuedAt, 0).Add(jwtRefreshExpirationDelta)) {
		return
	}

	usr, err := smgr.userSvc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil || !usr.IsActive {
		return
	}
	newClaims := GetUserClaims(usr, claims.OrigIssuedAt)
	newClaims.SessionID = claims.SessionID
	token, err := GenerateToken(newClaims)
	if err != nil {
		return
	}
	smgr.setCookie(ctx, token)
}

func (smgr *sessionManager) setCookie(ctx echo.Context, token string) {
	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(jwtRefreshExpirationDelta),
		HttpOnly: true,
		Secure:   !smgr.conf.Debug,
		SameSite: http.SameSiteLaxMode,
	})
}

func (smgr *sessionManager) clearCookie(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func (smgr *sessionManager) revoke(ctx context.Context, claims Claims) error {
	// keep the blacklist entry until the token could no longer refresh anyway
	ttl := time.Until(time.Unix(claims.OrigIssuedAt, 0).Add(jwtRefreshExpirationDelta))
	if ttl <= 0 {
		return nil
	}
	return smgr.store.Revoke(ctx, claims.SessionID, ttl)
}

func (smgr *sessionManager) refreshToken(ctx echo.Context) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context claims")
	}

	usr, err := getContextUser(ctx, smgr.userSvc, claims)
	if err != nil {
		return "", errors.Wrap(err, "getting context user")
	}

	// check if user is still active
	if !usr.IsActive {
		return "", errAccountDeactivated
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(jwtRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return "", errRefreshExpired
	}

	newClaims := GetUserClaims(usr, claims.OrigIssuedAt)
	newClaims.SessionID = claims.SessionID
	token, err := GenerateToken(newClaims)
	return token, errors.Wrap(err, "generating token")
}

func rawToken(r *http.Request) string {
	if auth := r.Header.Get(echo.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func parseToken(raw string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != appJWTConfig.SigningMethod {
			return nil, errors.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return secretKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// userProfileStore serves role and onboarding lookups straight off the user
// service; it is the authoritative tier over session-embedded metadata.
type userProfileStore struct {
	svc user.Service
}

var _ access.ProfileStore = userProfileStore{}

func (ps userProfileStore) FetchProfile(ctx context.Context, subject string) (string, bool, error) {
	usr, err := ps.svc.GetByID(ctx, subject)
	if err != nil {
		return "", false, errors.Wrap(err, "finding user by ID")
	}
	return usr.Role, usr.OnboardingCompleted, nil
}
