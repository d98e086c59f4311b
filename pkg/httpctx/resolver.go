// Package httpctx implements the HTTP Context Resolver: deriving
// (ActorContext, BusinessContext) from request headers/body through an
// AuthProvider.
package httpctx

import (
	"context"
	"net/http"

	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/ids"
	"github.com/Majorsoln/BOS-sub001/pkg/providers"
	"github.com/Majorsoln/BOS-sub001/pkg/rejection"
)

const (
	headerAPIKey     = "X-API-KEY"
	headerBusinessID = "X-BUSINESS-ID"
	headerBranchID   = "X-BRANCH-ID"
)

// Body mirrors the optional tenant-scoping fields a request body may also
// carry; when present they must match the headers exactly.
type Body struct {
	BusinessID string
	BranchID   string
}

// Result is the resolved pair the dispatcher needs to run a command.
type Result struct {
	Actor    bizcontext.ActorContext
	Business *bizcontext.BusinessContext
}

// Resolve implements the contract in §4.6. branchesOf, when non-nil, is
// consulted to confirm branch-in-business; a nil value is permissive.
func Resolve(ctx context.Context, h http.Header, body Body, auth providers.AuthProvider, lifecycle bizcontext.Lifecycle, branchesOf []string) (Result, rejection.Rejection, bool) {
	apiKey := h.Get(headerAPIKey)
	if apiKey == "" {
		return Result{}, rejection.New(rejection.CodeActorInvalid, "X-API-KEY header is required", "http_context_resolver"), true
	}

	principal, err := auth.ResolveAPIKey(ctx, apiKey)
	if err != nil || principal == nil {
		return Result{}, rejection.New(rejection.CodeActorInvalid, "api key did not resolve to a principal", "http_context_resolver"), true
	}

	businessID := h.Get(headerBusinessID)
	if businessID == "" || !ids.Valid(businessID) {
		return Result{}, rejection.New(rejection.CodeInvalidContext, "X-BUSINESS-ID header must be a UUID", "http_context_resolver"), true
	}
	branchID := h.Get(headerBranchID)
	if branchID != "" && !ids.Valid(branchID) {
		return Result{}, rejection.New(rejection.CodeInvalidContext, "X-BRANCH-ID header must be a UUID", "http_context_resolver"), true
	}

	if body.BusinessID != "" && body.BusinessID != businessID {
		return Result{}, rejection.New(rejection.CodeInvalidContext, "body business_id does not match header", "http_context_resolver"), true
	}
	if body.BranchID != "" && body.BranchID != branchID {
		return Result{}, rejection.New(rejection.CodeInvalidContext, "body branch_id does not match header", "http_context_resolver"), true
	}

	actorType := principal.ActorType
	if actorType == "USER" {
		actorType = "HUMAN"
	}
	actorKind := bizcontext.ActorKind(actorType)
	actorCtx, err := bizcontext.NewActorContext(actorKind, principal.ActorID)
	if err != nil {
		return Result{}, rejection.New(rejection.CodeActorInvalid, "principal actor type is not recognised", "http_context_resolver"), true
	}

	bizCtx := bizcontext.NewBusinessContext(businessID, lifecycle, branchesOf)
	if branchID != "" {
		bizCtx.SetBranch(branchID)
	}

	allowedBusiness := contains(principal.AllowedBusinessIDs, businessID)
	allowedBranch := true
	if branchID != "" {
		branches, scoped := principal.AllowedBranchIDsByBusiness[businessID]
		if scoped {
			allowedBranch = contains(branches, branchID)
		}
	}
	bizCtx.WithActorAuth(
		func(_, biz string) bool { return biz == businessID && allowedBusiness },
		func(_, biz, branch string) bool { return biz == businessID && branch == branchID && allowedBranch },
	)

	if !allowedBusiness {
		return Result{}, rejection.New(rejection.CodeActorUnauthorizedBiz, "actor is not authorized for this business", "http_context_resolver"), true
	}
	if branchID != "" && !allowedBranch {
		return Result{}, rejection.New(rejection.CodeActorUnauthorizedBranch, "actor is not authorized for this branch", "http_context_resolver"), true
	}

	return Result{Actor: actorCtx, Business: bizCtx}, rejection.Rejection{}, false
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
