// Package storefront is the HTTP adapter for the storefront REST API.
//
// Client implements the basket, order, discount and profile ports. Its
// transport is an AuthTransport, which attaches the bearer token and, on a
// 401, asks the token provider for a fresh token and replays the request
// once. AuthClient implements the auth port on a plain transport so that
// login and refresh never pass through the refresh path.
package storefront
