package realtimebidding

import "fmt"

// Resource name helpers. IDs are interpolated as given; the generated client
// escapes them when it builds the request path.

// BidderName returns bidders/{accountID}
func BidderName(accountID string) string {
	return fmt.Sprintf("bidders/%s", accountID)
}

// BuyerName returns buyers/{accountID}
func BuyerName(accountID string) string {
	return fmt.Sprintf("buyers/%s", accountID)
}

// BuyerCreativeName returns buyers/{accountID}/creatives/{creativeID}
func BuyerCreativeName(accountID, creativeID string) string {
	return fmt.Sprintf("buyers/%s/creatives/%s", accountID, creativeID)
}

// EndpointName returns bidders/{accountID}/endpoints/{endpointID}
func EndpointName(accountID, endpointID string) string {
	return fmt.Sprintf("bidders/%s/endpoints/%s", accountID, endpointID)
}

// PretargetingConfigName returns bidders/{accountID}/pretargetingConfigs/{configID}
func PretargetingConfigName(accountID, configID string) string {
	return fmt.Sprintf("bidders/%s/pretargetingConfigs/%s", accountID, configID)
}

// PublisherConnectionName returns bidders/{accountID}/publisherConnections/{connectionID}
func PublisherConnectionName(accountID, connectionID string) string {
	return fmt.Sprintf("bidders/%s/publisherConnections/%s", accountID, connectionID)
}

// UserListName returns buyers/{accountID}/userLists/{userListID}
func UserListName(accountID, userListID string) string {
	return fmt.Sprintf("buyers/%s/userLists/%s", accountID, userListID)
}
