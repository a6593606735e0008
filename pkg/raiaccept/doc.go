// Package raiaccept provides a client for the RaiAccept payment gateway API.
//
// The gateway hosts the card payment page for an order. A merchant logs in,
// registers an order, opens a payment session and redirects the customer to
// the returned URL. Results arrive through a notification webhook (see the
// webhook subpackage) and can be queried afterwards.
//
// # Authentication
//
// Two login schemes are supported, selected with ClientConfig.AuthScheme:
//   - AuthSchemeMTLS: username and password are posted to /auth/api/login
//     while presenting the merchant's client certificate. Refresh and logout
//     use the same certificate.
//   - AuthSchemeBearer: username and password are exchanged with an identity
//     provider at AuthURL+LoginPath; the ID token is used as bearer token.
//
// Load the certificate with LoadKeyPair (PEM files) or LoadPKCS12.
//
// # Basic Usage
//
//	cert, key, err := raiaccept.LoadKeyPair("client.crt", "client.key")
//
//	svc := raiaccept.NewService(&raiaccept.ClientConfig{
//	    Certificate: cert,
//	    PrivateKey:  key,
//	})
//
//	token, err := svc.RetrieveAccessTokenWithCredentials(ctx, username, password)
//
//	order, err := svc.CreateOrderEntry(ctx, token, &raiaccept.CreateOrderEntryRequest{
//	    Invoice: &raiaccept.Invoice{
//	        Amount:                 decimal.RequireFromString("10.00"),
//	        Currency:               "EUR",
//	        MerchantOrderReference: "order-1",
//	    },
//	    // ...
//	})
//
// Free-text fields such as names and addresses should go through
// TransliterateAndLimitLength, phone numbers through CleanPhoneNumber and
// country codes through GetCountryISO3 before they are sent.
//
// # Error Handling
//
// Client methods return every error. Service's read accessors and Refund
// return a nil result for gateway and transport failures instead:
//
//	res, err := svc.Client().GetOrderDetails(ctx, orderID, token)
//	var apiErr *raiaccept.APIError
//	if errors.As(err, &apiErr) {
//	    if er, ok := apiErr.ErrorResponse(); ok {
//	        // 400 with a decoded body
//	    }
//	}
package raiaccept
