// internal/repository/mock_gen.go
package repository

//go:generate mockgen -source=./repository.go -destination=../mocks/mock_transaction.go -package=mocks Transaction
//go:generate mockgen -source=./user.go -destination=../mocks/mock_user_repository.go -package=mocks UserRepositoryIface
//go:generate mockgen -source=./opportunity.go -destination=../mocks/mock_opportunity_repository.go -package=mocks OpportunityRepositoryIface
//go:generate mockgen -source=./application.go -destination=../mocks/mock_application_repository.go -package=mocks ApplicationRepositoryIface
//go:generate mockgen -source=./audit_log.go -destination=../mocks/mock_audit_log_repository.go -package=mocks AuditLogRepositoryIface
