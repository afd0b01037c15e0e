// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/models"
)

type usersFile struct {
	Users []struct {
		Username string      `yaml:"username"`
		Password string      `yaml:"password"`
		Role     models.Role `yaml:"role"`
	} `yaml:"users"`
}

// SeedUsers creates accounts listed in a YAML file, skipping any that
// already exist. This is how a deployment bootstraps its first admin
// before any client has registered.
//
//	users:
//	  - username: admin
//	    password: change-me
//	    role: admin
func (s *PollStore) SeedUsers(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read users file: %w", err)
	}

	var uf usersFile
	if err := yaml.Unmarshal(data, &uf); err != nil {
		return fmt.Errorf("failed to parse users file: %w", err)
	}

	for _, u := range uf.Users {
		if u.Username == "" || u.Password == "" {
			continue
		}
		role := u.Role
		if role == "" {
			role = models.RoleUser
		}
		if !role.Valid() {
			return fmt.Errorf("invalid role %q for seed user %q", role, u.Username)
		}

		hash, err := auth.HashPassword(u.Password)
		if err != nil {
			return err
		}
		if _, err := s.CreateUser(ctx, u.Username, hash, role); err != nil {
			if errors.Is(err, ErrUsernameTaken) {
				continue
			}
			return err
		}
	}

	return nil
}
