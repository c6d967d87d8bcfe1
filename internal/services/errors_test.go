package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/dto"
)

func TestErrorKinds(t *testing.T) {
	cases := []struct {
		err  error
		kind Kind
		name string
		code int
	}{
		{ErrMissingCredential, KindMissingCredential, "missing_credential", dto.CodeMissingToken},
		{ErrPromptQuota, KindQuotaExceeded, "quota_exceeded", dto.CodePromptQuota},
		{invalid(dto.CodeLabelHistory, "bad label"), KindInvalidArgument, "invalid_argument", dto.CodeLabelHistory},
		{notFound(dto.CodeGetPromptDenied), KindNotFound, "not_found", dto.CodeGetPromptDenied},
		{upstream(dto.CodeCreateOrder, errors.New("stripe")), KindUpstream, "upstream_failure", dto.CodeCreateOrder},
		{fmt.Errorf("wrapped: %w", internal(dto.CodeSystem, errors.New("db"))), KindInternal, "internal", dto.CodeSystem},
		{errors.New("foreign"), KindInternal, "internal", dto.CodeSystem},
	}
	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.kind || got.String() != tc.name {
			t.Errorf("%v: expected kind %s, got %s", tc.err, tc.name, got)
		}
		if got := CodeOf(tc.err); got != tc.code {
			t.Errorf("%v: expected code %d, got %d", tc.err, tc.code, got)
		}
	}
}
