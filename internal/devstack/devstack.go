// devstack.go
//
// Apartment maintenance tracker API
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of apartment-maintenance-tracker.
// apartment-maintenance-tracker is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// apartment-maintenance-tracker is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with apartment-maintenance-tracker.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

// Package devstack starts the backing services (database and SMTP catcher) in containers
// for local development and integration tests.
package devstack

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	dbName     = "tracker"
	dbUser     = "tracker"
	dbPassword = "tracker"

	mailpitImage = "axllent/mailpit:v1.21"
)

// Logf receives progress messages, testing.T.Logf and log.Printf both fit
type Logf func(format string, args ...interface{})

// Options select what to start
type Options struct {
	DBType  string // postgres, mysql or mariadb
	DBImage string // defaults per DBType
	Mail    bool
	Logf    Logf
}

// Stack is a running set of containers
type Stack struct {
	Network *testcontainers.DockerNetwork
	DB      testcontainers.Container
	Mail    testcontainers.Container

	dbType   string
	dbHost   string
	dbPort   string
	smtpHost string
	smtpPort int
	mailAPI  string
}

// Start brings up the containers named by opts. On failure everything already started is torn down.
func Start(ctx context.Context, opts Options) (*Stack, error) {
	if opts.Logf == nil {
		opts.Logf = func(string, ...interface{}) {}
	}
	if opts.DBType == "" {
		opts.DBType = "postgres"
	}
	spec, err := dbContainerSpec(opts.DBType)
	if err != nil {
		return nil, err
	}
	if opts.DBImage != "" {
		spec.image = opts.DBImage
	}

	stack := &Stack{dbType: opts.DBType}

	nw, err := network.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("create network: %w", err)
	}
	stack.Network = nw

	opts.Logf("Starting %s (%s)", opts.DBType, spec.image)
	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        spec.image,
			ExposedPorts: []string{string(spec.port)},
			Env:          spec.env,
			WaitingFor:   spec.waitFor,
			Networks:     []string{nw.Name},
			NetworkAliases: map[string][]string{
				nw.Name: {"db"},
			},
		},
		Started: true,
	})
	if err != nil {
		stack.Terminate(ctx, opts.Logf)
		return nil, fmt.Errorf("start %s: %w", opts.DBType, err)
	}
	stack.DB = dbContainer
	if stack.dbHost, stack.dbPort, err = hostPort(ctx, dbContainer, spec.port); err != nil {
		stack.Terminate(ctx, opts.Logf)
		return nil, err
	}

	if opts.Mail {
		if err := stack.startMail(ctx, opts.Logf); err != nil {
			stack.Terminate(ctx, opts.Logf)
			return nil, err
		}
	}

	return stack, nil
}

func (s *Stack) startMail(ctx context.Context, logf Logf) error {
	smtpPort, _ := nat.NewPort("tcp", "1025")
	apiPort, _ := nat.NewPort("tcp", "8025")

	logf("Starting mail catcher (%s)", mailpitImage)
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        mailpitImage,
			ExposedPorts: []string{string(smtpPort), string(apiPort)},
			Env: map[string]string{
				"MP_SMTP_AUTH_ACCEPT_ANY":     "true",
				"MP_SMTP_AUTH_ALLOW_INSECURE": "true",
			},
			WaitingFor: wait.ForHTTP("/readyz").WithPort(apiPort).WithStartupTimeout(30 * time.Second),
			Networks:   []string{s.Network.Name},
			NetworkAliases: map[string][]string{
				s.Network.Name: {"mail"},
			},
		},
		Started: true,
	})
	if err != nil {
		return fmt.Errorf("start mail catcher: %w", err)
	}
	s.Mail = c

	host, port, err := hostPort(ctx, c, smtpPort)
	if err != nil {
		return err
	}
	s.smtpHost = host
	if s.smtpPort, err = strconv.Atoi(port); err != nil {
		return fmt.Errorf("smtp port %q: %w", port, err)
	}
	_, api, err := hostPort(ctx, c, apiPort)
	if err != nil {
		return err
	}
	s.mailAPI = fmt.Sprintf("http://%s:%s", host, api)
	return nil
}

// Env returns the environment a locally run server needs to reach the stack
func (s *Stack) Env() map[string]string {
	env := map[string]string{
		"DB_TYPE":     s.dbType,
		"DB_HOST":     s.dbHost,
		"DB_PORT":     s.dbPort,
		"DB_DATABASE": dbName,
		"DB_USER":     dbUser,
		"DB_PASSWORD": dbPassword,
	}
	if s.Mail != nil {
		env["SMTP_HOST"] = s.smtpHost
		env["SMTP_PORT"] = strconv.Itoa(s.smtpPort)
		env["MAIL_FROM"] = "tracker@example.com"
	}
	return env
}

// SMTP returns the mapped address of the mail catcher
func (s *Stack) SMTP() (string, int) {
	return s.smtpHost, s.smtpPort
}

// MailAPI returns the base URL of the mail catcher's HTTP API
func (s *Stack) MailAPI() string {
	return s.mailAPI
}

// Terminate stops every container and removes the network
func (s *Stack) Terminate(ctx context.Context, logf Logf) {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	if s.Mail != nil {
		if err := s.Mail.Terminate(ctx); err != nil {
			logf("Failed to terminate mail catcher: %v", err)
		}
	}
	if s.DB != nil {
		if err := s.DB.Terminate(ctx); err != nil {
			logf("Failed to terminate %s: %v", s.dbType, err)
		}
	}
	if s.Network != nil {
		if err := s.Network.Remove(ctx); err != nil {
			logf("Failed to remove network: %v", err)
		}
	}
}

type dbSpec struct {
	image   string
	port    nat.Port
	env     map[string]string
	waitFor wait.Strategy
}

func dbContainerSpec(dbType string) (dbSpec, error) {
	switch dbType {
	case "postgres":
		port, _ := nat.NewPort("tcp", "5432")
		return dbSpec{
			image: "postgres:16-alpine",
			port:  port,
			env: map[string]string{
				"POSTGRES_USER":     dbUser,
				"POSTGRES_PASSWORD": dbPassword,
				"POSTGRES_DB":       dbName,
			},
			waitFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		}, nil
	case "mysql", "mariadb":
		port, _ := nat.NewPort("tcp", "3306")
		image, prefix := "mysql:8.4", "MYSQL"
		if dbType == "mariadb" {
			image, prefix = "mariadb:11", "MARIADB"
		}
		return dbSpec{
			image: image,
			port:  port,
			env: map[string]string{
				prefix + "_ROOT_PASSWORD": dbPassword,
				prefix + "_DATABASE":      dbName,
				prefix + "_USER":          dbUser,
				prefix + "_PASSWORD":      dbPassword,
			},
			waitFor: wait.ForListeningPort(port).WithStartupTimeout(90 * time.Second),
		}, nil
	default:
		return dbSpec{}, fmt.Errorf("unsupported DB_TYPE for containers: %s", dbType)
	}
}

func hostPort(ctx context.Context, c testcontainers.Container, port nat.Port) (string, string, error) {
	host, err := c.Host(ctx)
	if err != nil {
		return "", "", fmt.Errorf("container host: %w", err)
	}
	mapped, err := c.MappedPort(ctx, port)
	if err != nil {
		return "", "", fmt.Errorf("mapped port %s: %w", port, err)
	}
	return host, mapped.Port(), nil
}
