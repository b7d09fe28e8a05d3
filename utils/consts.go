package utils

// environment variables
const DBUSER = "DBUSER"
const DBPASS = "DBPASS"
const DBNAME = "DBNAME"
const JWT_SECRET_KEY = "JWT_SECRET_KEY"
const JWT_SECRET_KEY_OLD = "JWT_SECRET_KEY_OLD"
const ACCESS_TOKEN_MINUTES = "ACCESS_TOKEN_MINUTES"
const REFRESH_TOKEN_DAYS = "REFRESH_TOKEN_DAYS"
const OTP_LIFESPAN_HOURS = "OTP_LIFESPAN_HOURS"
const SMTP_HOST = "SMTP_HOST"
const SMTP_PORT = "SMTP_PORT"
const SMTP_USER = "SMTP_USER"
const SMTP_PASS = "SMTP_PASS"
const SMTP_SENDER = "SMTP_SENDER"

// default policy values, overridable through the env vars above
const DEFAULT_ACCESS_TOKEN_MINUTES = 15
const DEFAULT_REFRESH_TOKEN_DAYS = 7
const DEFAULT_OTP_LIFESPAN_HOURS = 24

// token value sizing
const OTP_TOKEN_LENGTH = 32
const REFRESH_TOKEN_BYTES = 32

// error messages
const GENERIC_SIGNUP_ERROR = "We had some trouble signing you up. Please try again!"
const EMAIL_TAKEN_SIGNUP_ERROR = "Someone might have signed up with that email before. Please try logging in!"
const GENERIC_LOGIN_ERROR = "We had some trouble logging you in. Please check your details and try again!"
const GENERIC_CONFIRMATION_ERROR = "We had some trouble confirming your email. Please request a new link!"
const EXPIRED_TOKEN_ERROR = "That link has expired. Please request a new one!"
const USED_TOKEN_ERROR = "That link has already been used."
const USER_NOT_FOUND_ERROR = "User not found."
const FRIEND_REQUEST_EXISTS_ERROR = "A friend request already exists between you two."
const SELF_FRIEND_REQUEST_ERROR = "You cannot send a friend request to yourself."
const NOT_YOUR_REQUEST_ERROR = "Only the recipient can respond to this request."
const MISSING_REQUEST_DATA = "Missing request data."
const JWT_TOKEN_PARSING_ERROR = "Please log in again."
const SERVER_DOWN = "Please try again later!"
const NOTIFICATION_PENDING_STATUS = "Signed up! Your confirmation email is on its way."
