package flows

import "context"

// Service is the centralized flow runner built once by the root engine.
type Service struct {
	deps Deps
}

// New returns a flow service with immutable dependency wiring.
func New(deps Deps) Service {
	return Service{deps: deps}
}

// Initialized reports whether the service has been wired with flow deps.
func (s Service) Initialized() bool {
	return s.deps.Authorize.ParseToken != nil &&
		s.deps.Login.Store.FindByEmail != nil &&
		s.deps.Register.HashPassword != nil
}

func (s Service) Register(ctx context.Context, req RegisterRequest) RegisterResult {
	return RunRegister(ctx, req, s.deps.Register)
}

func (s Service) Login(ctx context.Context, email, password string) LoginResult {
	return RunLogin(ctx, email, password, s.deps.Login)
}

func (s Service) Logout(ctx context.Context, token string) LogoutResult {
	return RunLogout(ctx, token, s.deps.Logout)
}

func (s Service) Authorize(ctx context.Context, token string) AuthorizeResult {
	return RunAuthorize(ctx, token, s.deps.Authorize)
}

func (s Service) Profile(ctx context.Context, email string) ProfileResult {
	return RunProfile(ctx, email, s.deps.Profile)
}

func (s Service) UpdateProfile(ctx context.Context, email string, changes ProfileChanges) ProfileResult {
	return RunUpdateProfile(ctx, email, changes, s.deps.Profile)
}
