package game

const (
	TickHz            = 20   // simulation ticks per second (wanderers, scare timers)
	InputHz           = 20   // expected move events per second from one client
	Deadzone          = 0.08 // intent magnitude below this is ignored
	MaxSubStep        = 0.25 // longest displacement resolved in one wall check
	WallEpsilon       = 1e-6 // gap kept between a clamped circle and a wall
	WandererJitter    = 0.6  // max heading change per tick, radians
	WandererProbe     = 0.5  // look-ahead past the radius when probing for walls
	WandererLayTicks  = 10 * TickHz
	ScareTicks        = 8 * TickHz
	ScarePenalty      = 300 // calories an eater loses when caught
	CatchBonus        = 500 // calories for catching a scared chaser
	MaxEaters         = 4
	MaxChasers        = 4
	CaloriesHealthy   = 100
	CaloriesNeutral   = 250
	CaloriesUnhealthy = 500
)
