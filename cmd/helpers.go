package cmd

import (
	"fmt"
	"time"

	"forcectl/internal/auth"
	"forcectl/internal/config"
	"forcectl/internal/rest"

	"github.com/briandowns/spinner"
)

// clientSet bundles the wired components a command needs: configuration,
// credential store, authorization coordinator and request pipeline.
type clientSet struct {
	cfg         config.Config
	store       *auth.Store
	coordinator *auth.Coordinator
	client      *rest.Client
}

// buildClientSet loads configuration and wires the store, coordinator and
// pipeline together. The caller must Close the returned set.
func buildClientSet() (*clientSet, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := auth.NewStore(auth.StoreConfig{Dir: cfg.CredentialDir})
	if err != nil {
		return nil, err
	}

	coordinator, err := auth.NewCoordinator(auth.CoordinatorConfig{
		ConsumerKey:      cfg.ConsumerKey,
		AuthorizationURL: cfg.AuthorizationURL(),
		TokenURL:         cfg.TokenURL(),
		CallbackURL:      cfg.CallbackURL,
		Scopes:           cfg.Scopes,
	}, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	client := rest.NewClient(rest.ClientConfig{
		ConsumerKey: cfg.ConsumerKey,
		APIVersion:  cfg.APIVersion,
	}, store, coordinator)

	return &clientSet{
		cfg:         cfg,
		store:       store,
		coordinator: coordinator,
		client:      client,
	}, nil
}

// Close releases the set's resources.
func (s *clientSet) Close() {
	if err := s.store.Close(); err != nil {
		fmt.Printf("Warning: failed to close credential store: %v\n", err)
	}
}

// withSpinner runs fn while showing a progress spinner with the message.
func withSpinner(message string, fn func() error) error {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	s.Start()
	defer s.Stop()
	return fn()
}
