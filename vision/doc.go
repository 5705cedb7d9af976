// Package vision provides the Watts Vision+ device catalog and a thin client
// for the device discovery, report, and control endpoints.
//
// The catalog is static vendor data: the API root, the device interface type
// constants, the thermostat mode enumeration with its fixed integer codes,
// the default settable temperature bounds, and the endpoint path templates
// keyed by operation name.
//
// # Usage Example
//
//	tm := auth.NewTokenManager(auth.Credentials{
//	    ClientID:     "client-id",
//	    ClientSecret: "client-secret",
//	    RefreshToken: "stored-refresh-token",
//	})
//	defer tm.Close()
//
//	client := vision.NewClient(tm)
//
//	devices, err := client.Discover(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := client.SetTemperature(ctx, "device-1", 21.5); err != nil {
//	    log.Fatal(err)
//	}
//
// Control requests are validated against the static taxonomy (mode codes,
// temperature bounds) before any network call. Every request carries an
// Authorization: Bearer header obtained from the token manager.
package vision
