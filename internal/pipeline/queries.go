package pipeline

// SQL statements for the load and compute stages. Centralizing them here
// keeps the SQL readable and separate from Go code. The schema itself
// (places, people) is provisioned by an external bootstrap step; the
// pipeline performs no DDL beyond the explicit reset workflow.

const (
	// queryInsertPlace inserts one place row; the store assigns the id.
	queryInsertPlace = `
		INSERT INTO places (city, county, country)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	// queryInsertPerson inserts one person row with an already-resolved
	// (possibly NULL) birthplace reference.
	queryInsertPerson = `
		INSERT INTO people (given_name, family_name, date_of_birth, place_of_birth_id)
		VALUES ($1, $2, $3, $4)
	`

	// queryLookupPlace resolves a natural key against the store. Used
	// when the person stage runs without the in-process directory.
	// IS NOT DISTINCT FROM makes a missing county match a NULL county.
	queryLookupPlace = `
		SELECT id
		FROM places
		WHERE city = $1
		  AND county IS NOT DISTINCT FROM $2
		  AND country = $3
		ORDER BY id
		LIMIT 1
	`

	// queryCountrySummary counts people per birthplace country. People
	// with a NULL reference drop out of the join; places with a blank
	// country are excluded explicitly. Ordered for deterministic output.
	queryCountrySummary = `
		SELECT pl.country, COUNT(p.id) AS population
		FROM people p
		JOIN places pl ON p.place_of_birth_id = pl.id
		WHERE pl.country IS NOT NULL AND btrim(pl.country) <> ''
		GROUP BY pl.country
		ORDER BY pl.country
	`

	// queryResetTables empties both tables for a fresh load run.
	// Destructive; gated behind the approver.
	queryResetTables = `
		TRUNCATE TABLE people, places RESTART IDENTITY
	`
)
