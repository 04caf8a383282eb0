// Package geocoding exposes a geocode.Geocoder over HTTP so the browser
// runtime can resolve addresses and coordinates through the server instead of
// the Google Maps JS geocoder.
//
// Four routes are served, all answering GET and HEAD with a JSON envelope of
// the form {"data": [...]}:
//
//	<base>/api/geocode?q=...             forward geocoding
//	<base>/api/reverse?lat=...&lng=...   reverse geocoding
//	<base>/api/autocomplete?q=...        place suggestions
//	<base>/api/place?id=...              place details
//
// Autocomplete and place details answer 501 when the configured geocoder does
// not implement geocode.Autocompleter.
package geocoding
