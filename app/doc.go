/*
Package app assembles a synkro service from its environment and runs it.

New reads configuration from environment variables, loading a .env file first if there is one.
Options passed to New replace what would otherwise be read from the environment:

	a, err := app.New(app.WithBuildInfo(version, commit))
	if err != nil {
		log.Fatal(err)
	}

	if err := a.Serve(); err != nil {
		log.Fatal(err)
	}

The environment variables New reads are:

  - ENVIRONMENT: DEVELOPMENT, TESTING, DEMO, REVIEW, STAGING or PRODUCTION; defaults to DEVELOPMENT
  - LOG_LEVEL: DEBUG, INFO, WARN, ERROR or FATAL; defaults to INFO
  - SENTRY_DSN: ships warnings and errors to Sentry
  - BASE_URL: the origin browsers call synkro from, for CORS
  - PORT, SERVER_READ_TIMEOUT, SERVER_WRITE_TIMEOUT, SERVER_IDLE_TIMEOUT
  - RECORD_STORE: airtable, postgres or memory; defaults to airtable
  - AIRTABLE_API_URL, AIRTABLE_BASE_ID, AIRTABLE_TOKEN, AIRTABLE_TIMEOUT: for RECORD_STORE=airtable
  - DATABASE_URL, or PG_HOST, PG_PORT, PG_NAME, PG_USER, PG_PASSWORD, PG_SSLMODE: for RECORD_STORE=postgres
  - REDIS_URL: shares rate limits and idempotent responses between instances
  - JWT_SECRET: verifies bearer tokens; required outside DEVELOPMENT and TESTING
  - ON_REVOKED_GRANT: denyAsUnknown or fallbackToOwner; defaults to denyAsUnknown
  - RATE_LIMIT_STRATEGY: fixed, token or redis; defaults to fixed
  - RATE_LIMIT_LIMIT, RATE_LIMIT_WINDOW, RATE_LIMIT_PRUNE_INTERVAL

The memory record store is only available in environments allowing stubbed services.
*/
package app
