package storage

// Keys the storefront persists under. The _v1 suffix is the stored-shape
// version; bump it when a value's format changes.
const (
	KeyCart        = "gurukul_cart_v1"
	KeyToken       = "gurukul_token_v1"
	KeyTokenExpiry = "gurukul_token_expiry_v1"
	KeyUserID      = "gurukul_user_id_v1"
	KeyRole        = "gurukul_role_v1"
	KeyPhone       = "gurukul_phone_v1"
)

// SessionKeys lists every key owned by the session
var SessionKeys = []string{KeyToken, KeyTokenExpiry, KeyUserID, KeyRole, KeyPhone}
