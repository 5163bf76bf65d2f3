package domain

const (
	// Plugin identity, also the first segment of every correlation value
	PLUGIN_ID = "availability_paypal"

	// Availability condition type handled by this service
	CONDITION_TYPE_PAYPAL = "paypal"

	// PayPal pending reason that does not warrant a payer notice
	PENDING_REASON_ECHECK = "echeck"

	// Section id stored for module-level conditions
	MODULE_LEVEL_SECTION_ID int64 = 0

	// Session key prefix for correlation tokens
	SESSION_KEY_PREFIX = "availability_paypal:session"

	// Key prefix for stale verification alert markers
	STALE_ALERT_KEY_PREFIX = "availability_paypal:stale_alert:"
)
