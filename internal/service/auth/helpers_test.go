package auth_test

import "github.com/woklearn/woklearn-api/internal/config"

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            testSecret,
		Issuer:               testIssuer,
		Audience:             testAudience,
		TokenLifetimeSeconds: int(testLifetime.Seconds()),
	}
}
