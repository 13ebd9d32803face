// common.go
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

package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/access"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/lifecycle"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/middleware"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/types"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Notifier fans out the events a mutation produced
type Notifier interface {
	Dispatch(ctx context.Context, events ...lifecycle.Event) int
}

// ErrorHandler renders every error in the standard envelope
func ErrorHandler(c *fiber.Ctx, err error) error {
	if types.KindOf(err) == types.KindDependencyFailure {
		if _, isFiber := err.(*fiber.Error); !isFiber {
			zap.L().Error("request failed",
				zap.String("method", c.Method()),
				zap.String("url", c.OriginalURL()),
				zap.Error(err),
			)
		}
	}
	return utils.AppErrorResponse(c, err)
}

// requestDB scopes the store to the request's context
func requestDB(c *fiber.Ctx, db *gorm.DB) *gorm.DB {
	return db.WithContext(c.UserContext())
}

// actor returns the authenticated caller
func actor(c *fiber.Ctx) (access.Actor, error) {
	a, ok := middleware.ActorFrom(c)
	if !ok {
		return access.Actor{}, types.Unauthenticated("authentication", "Authentication required")
	}
	return a, nil
}

// paramID parses a positive numeric route parameter
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, types.Validation("request", "Invalid %s %q", name, c.Params(name))
	}
	return uint(id), nil
}

// parseBody decodes the request body into out
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return types.Validation("request", "Invalid request body: %v", err)
	}
	return nil
}

// dispatch hands events to the notifier after the primary write committed
func dispatch(c *fiber.Ctx, n Notifier, events []lifecycle.Event) {
	if n == nil || len(events) == 0 {
		return
	}
	n.Dispatch(c.UserContext(), events...)
}
