// Package authgin mounts goTokenAuth on gin routers.
package authgin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	goTokenAuth "github.com/MrEthical07/goTokenAuth"
	"github.com/MrEthical07/goTokenAuth/middleware"
)

// UserKey is the gin context key holding the authenticated goTokenAuth.User.
const UserKey = "gotokenauth.user"

// Guard aborts with 401 unless the request carries a valid access token.
func Guard(engine *goTokenAuth.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		if engine == nil {
			abort(c, goTokenAuth.ErrInvalidToken)
			return
		}

		credentials := map[string]any{}
		if token, ok := middleware.BearerToken(c.GetHeader("Authorization")); ok {
			credentials[goTokenAuth.CredentialToken] = token
		}

		guard := engine.NewGuard()
		ok, err := guard.Validate(requestContext(c), credentials)
		if err != nil {
			_ = c.Error(err)
			abort(c, err)
			return
		}
		if !ok {
			abort(c, goTokenAuth.ErrInvalidToken)
			return
		}

		user, _ := guard.User()
		c.Set(UserKey, user)
		c.Next()
	}
}

// UserFrom returns the user Guard stored on c.
func UserFrom(c *gin.Context) (goTokenAuth.User, bool) {
	v, ok := c.Get(UserKey)
	if !ok {
		return goTokenAuth.User{}, false
	}
	user, ok := v.(goTokenAuth.User)
	return user, ok
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login answers {"email", "password"} with a token pair.
func Login(engine *goTokenAuth.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abort(c, middleware.ErrInvalidRequest)
			return
		}

		pair, err := engine.Login(requestContext(c), req.Email, req.Password)
		if err != nil {
			abort(c, err)
			return
		}
		respond(c, pair)
	}
}

// Refresh answers {"refreshToken"} with a fresh token pair. A missing or
// non-string token is rejected with 422 before the engine sees it.
func Refresh(engine *goTokenAuth.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			abort(c, middleware.ErrInvalidRequest)
			return
		}
		token, ok := body["refreshToken"].(string)
		if !ok || token == "" {
			abort(c, middleware.ErrInvalidRequest)
			return
		}

		pair, err := engine.Refresh(requestContext(c), token)
		if err != nil {
			abort(c, err)
			return
		}
		respond(c, pair)
	}
}

// Register mounts POST <group>/login and POST <group>/refresh.
func Register(group gin.IRoutes, engine *goTokenAuth.Engine) {
	group.POST("/login", Login(engine))
	group.POST("/refresh", Refresh(engine))
}

func respond(c *gin.Context, pair goTokenAuth.TokenPair) {
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, pair)
}

func abort(c *gin.Context, err error) {
	status, body := middleware.Classify(err)
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", middleware.BearerChallenge)
	}
	c.AbortWithStatusJSON(status, body)
}
