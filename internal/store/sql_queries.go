package store

const (
	userColumns = `id, name, email, password_digest, remember_digest, activation_digest, reset_digest, activated, activated_at, reset_sent_at, created_at`

	createUser = `INSERT INTO users (name, email, password_digest, activation_digest)
    VALUES ($1, $2, $3, $4)
    RETURNING ` + userColumns + `;`

	findUserByID = `SELECT ` + userColumns + `
    FROM users
    WHERE id = $1;`

	findUserByEmail = `SELECT ` + userColumns + `
    FROM users
    WHERE email = $1;`

	updateRememberDigest = `UPDATE users
    SET remember_digest = $2
    WHERE id = $1;`

	setResetDigest = `UPDATE users
    SET reset_digest = $2, reset_sent_at = $3
    WHERE id = $1;`

	updatePasswordClearReset = `UPDATE users
    SET password_digest = $2, reset_digest = '', reset_sent_at = NULL, remember_digest = ''
    WHERE id = $1;`

	updatePassword = `UPDATE users
    SET password_digest = $2
    WHERE id = $1;`

	activateUser = `UPDATE users
    SET activated = TRUE, activated_at = $2
    WHERE id = $1;`

	clearExpiredResets = `UPDATE users
    SET reset_digest = '', reset_sent_at = NULL
    WHERE reset_sent_at IS NOT NULL AND reset_sent_at < $1;`
)
