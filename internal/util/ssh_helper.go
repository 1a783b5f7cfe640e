package util

import (
	"fmt"
	"net"

	log "github.com/sirupsen/logrus"
)

// getOutboundIP retrieves the preferred outbound IP address of this machine.
// It uses a UDP socket to a public DNS server to determine the local IP
// address that would be used for outbound traffic. No packets are sent.
func getOutboundIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			log.Warnf("Failed to close UDP connection: %v", closeErr)
		}
	}()

	localAddr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "", fmt.Errorf("could not assert UDP address type")
	}
	return localAddr.IP.String(), nil
}

// PrintSSHTunnelInstructions prints the port forward a user needs when the browser runs
// on another machine than the loopback callback server.
func PrintSSHTunnelInstructions(port int) {
	if port <= 0 {
		return
	}
	ipAddress, err := getOutboundIP()
	if err != nil {
		log.Debugf("Failed to detect outbound IP: %v", err)
		ipAddress = "<this-host>"
	}
	border := "================================================================================"
	fmt.Println("If your browser runs on another machine, forward the callback port first.")
	fmt.Println(border)
	fmt.Println("  Run the following on the machine with the browser:")
	fmt.Println()
	fmt.Printf("  ssh -L %d:127.0.0.1:%d <user>@%s\n", port, port, ipAddress)
	fmt.Println(border)
}
