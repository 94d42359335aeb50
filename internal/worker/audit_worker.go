package worker

import (
	"github.com/certidao-digital/atendimento/internal/service"
)

// StartAuditWorker registers the audit-log event handlers.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
