package envconfig

import (
	"context"

	goTokenAuth "github.com/MrEthical07/goTokenAuth"
)

type nopProvider struct{}

func (nopProvider) GetUserByID(context.Context, string) (goTokenAuth.User, error) {
	return goTokenAuth.User{}, goTokenAuth.ErrUserNotFound
}

func (nopProvider) GetUserByEmail(context.Context, string) (goTokenAuth.User, error) {
	return goTokenAuth.User{}, goTokenAuth.ErrUserNotFound
}
