package constants

// Aggregates are single statements so every count comes from the same snapshot.
// Placeholders use '?' and are rebound by sqlx for the active driver.
const (
	EventRegistrationStatsQuery = `
	SELECT
		COALESCE(SUM(CASE WHEN registration_type = 'interested' THEN 1 ELSE 0 END), 0) AS total_interested,
		COALESCE(SUM(CASE WHEN registration_type = 'registered' THEN 1 ELSE 0 END), 0) AS total_registered,
		COALESCE(SUM(CASE WHEN status = 'approved' THEN 1 ELSE 0 END), 0) AS total_approved,
		COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS total_pending,
		COALESCE(SUM(CASE WHEN status = 'attended' THEN 1 ELSE 0 END), 0) AS total_attended
	FROM registrations
	WHERE event_id = ?
	`

	EventsRegistrationStatsQuery = `
	SELECT
		event_id,
		COALESCE(SUM(CASE WHEN registration_type = 'interested' THEN 1 ELSE 0 END), 0) AS total_interested,
		COALESCE(SUM(CASE WHEN registration_type = 'registered' THEN 1 ELSE 0 END), 0) AS total_registered,
		COALESCE(SUM(CASE WHEN status = 'approved' THEN 1 ELSE 0 END), 0) AS total_approved,
		COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS total_pending,
		COALESCE(SUM(CASE WHEN status = 'attended' THEN 1 ELSE 0 END), 0) AS total_attended
	FROM registrations
	WHERE event_id IN (?)
	GROUP BY event_id
	`

	UserRatingAggregateQuery = `
	SELECT COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count
	FROM ratings
	WHERE ratee_id = ?
	`
)
