package auth

import (
	"errors"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
)

func domainCode(err error) string {
	if err == nil {
		return ""
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "non_domain_error"
}

// auditFields builds the common field set for one audit entry.
func auditFields(result string, err error, kv ...string) map[string]string {
	fields := map[string]string{"result": result}
	if err != nil {
		fields["error_code"] = domainCode(err)
	}
	for i := 0; i+1 < len(kv); i += 2 {
		fields[kv[i]] = kv[i+1]
	}
	return fields
}
