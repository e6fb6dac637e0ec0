// Package api provides the HTTP client for position feeds.
//
// Supported response shapes:
//   - open-notify (http://api.open-notify.org/iss-now.json):
//     {"message": "success", "timestamp": 1705321845,
//     "iss_position": {"latitude": "-51.6435", "longitude": "143.2011"}}
//   - flat objects such as wheretheiss.at:
//     {"latitude": -51.6435, "longitude": 143.2011, "timestamp": 1705321845}
//
// Both are flattened into a sampler.Payload. Field validation is left to the
// sampler; this package only reports transport and envelope failures.
package api
