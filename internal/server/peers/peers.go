// Package peers holds typed clients for the /internal endpoints that
// coursehub services expose to each other. Internal endpoints need no
// token.
//
// An error answer from the called service comes back as
// *common.UpstreamError so it can be relayed to the end user unchanged; a
// service that cannot be reached yields a common.KindGeneralAPI error.
package peers

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/client/api"
	"github.com/dmitrijs2005/coursehub/internal/common"
)

// DefaultTimeout bounds one internal call.
const DefaultTimeout = 10 * time.Second

func translate(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Code != 0 {
		return &common.UpstreamError{Code: apiErr.Code, Message: apiErr.Message}
	}
	return common.Wrap(common.KindGeneralAPI, err)
}
