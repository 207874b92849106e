package postgres

import (
	"fmt"
	"time"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	defaultListLimit = 100
	maxListLimit     = 500

	constraintAccountsUsername = "accounts_username_key"
	constraintAccountsEmail    = "accounts_email_key"

	errAccountNotFound    = "account not found"
	errUsernameTaken      = "Username is already taken"
	errEmailInUse         = "Email is already in use"
	errAccountRoleMissing = "role %s does not exist"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"
	errFailedMigrateFmt              = "failed to apply schema: %w"
	errFailedVerifySchemaFmt         = "failed to verify schema: %w"
	errMissingTableFmt               = "table %s does not exist"

	errFailedStartTransactionFmt  = "failed to start transaction: %w"
	errFailedCommitTransactionFmt = "failed to commit transaction: %w"

	errFailedCreateAccountFmt     = "failed to create account: %w"
	errFailedGetAccountFmt        = "failed to get account: %w"
	errFailedListAccountsFmt      = "failed to list accounts: %w"
	errFailedScanAccountFmt       = "failed to scan account: %w"
	errIterateAccountsFmt         = "error iterating accounts: %w"
	errFailedUpdateAccountRoleFmt = "failed to update account role: %w"
	errFailedCheckAccountFmt      = "failed to check account existence: %w"

	errFailedSeedRoleFmt       = "failed to seed role %s: %w"
	errFailedSeedPermissionFmt = "failed to seed permission %s: %w"
	errFailedSeedGrantFmt      = "failed to grant %s to %s: %w"
	errFailedLoadRolesFmt      = "failed to load roles: %w"
	errFailedLoadPermsFmt      = "failed to load permissions: %w"
	errFailedLoadGrantsFmt     = "failed to load role permissions: %w"
)

var (
	errFailedCheckAccount         = func(err error) error { return fmt.Errorf(errFailedCheckAccountFmt, err) }
	errFailedCommitTransaction    = func(err error) error { return fmt.Errorf(errFailedCommitTransactionFmt, err) }
	errFailedCreateAccount        = func(err error) error { return fmt.Errorf(errFailedCreateAccountFmt, err) }
	errFailedCreateConnectionPool = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedGetAccount           = func(err error) error { return fmt.Errorf(errFailedGetAccountFmt, err) }
	errFailedListAccounts         = func(err error) error { return fmt.Errorf(errFailedListAccountsFmt, err) }
	errFailedLoadGrants           = func(err error) error { return fmt.Errorf(errFailedLoadGrantsFmt, err) }
	errFailedLoadPerms            = func(err error) error { return fmt.Errorf(errFailedLoadPermsFmt, err) }
	errFailedLoadRoles            = func(err error) error { return fmt.Errorf(errFailedLoadRolesFmt, err) }
	errFailedMigrate              = func(err error) error { return fmt.Errorf(errFailedMigrateFmt, err) }
	errFailedParseDatabaseConfig  = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedPingDatabase         = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }
	errFailedScanAccount          = func(err error) error { return fmt.Errorf(errFailedScanAccountFmt, err) }
	errFailedStartTransaction     = func(err error) error { return fmt.Errorf(errFailedStartTransactionFmt, err) }
	errFailedUpdateAccountRole    = func(err error) error { return fmt.Errorf(errFailedUpdateAccountRoleFmt, err) }
	errFailedVerifySchema         = func(err error) error { return fmt.Errorf(errFailedVerifySchemaFmt, err) }
	errIterateAccounts            = func(err error) error { return fmt.Errorf(errIterateAccountsFmt, err) }
)
