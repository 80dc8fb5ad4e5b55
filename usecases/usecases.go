package usecases

import (
	"errors"

	"nexus-server/entities"
	"nexus-server/repositories"
)

type DeviceUseCase struct {
	DeviceRepo repositories.DeviceRepository
}

func NewDeviceUseCase(deviceRepo repositories.DeviceRepository) *DeviceUseCase {
	return &DeviceUseCase{DeviceRepo: deviceRepo}
}

// Register creates a device. Duplicate name or oracle index surfaces as
// a ConflictError from the single atomic insert.
func (uc *DeviceUseCase) Register(device *entities.Device) error {
	if device.Name == "" {
		return errors.New("device name is required")
	}
	if device.OracleIndex == "" {
		return errors.New("oracle index is required")
	}
	if device.Account == "" {
		return errors.New("account is required")
	}
	return uc.DeviceRepo.Create(device)
}

// List retrieves all devices owned by a ledger account
func (uc *DeviceUseCase) List(account string) ([]entities.Device, error) {
	if account == "" {
		return nil, errors.New("account is required")
	}
	return uc.DeviceRepo.GetByAccount(account)
}

// ListAll retrieves every registered device
func (uc *DeviceUseCase) ListAll() ([]entities.Device, error) {
	return uc.DeviceRepo.GetAll()
}

// GetByOracleIndex resolves a device from its oracle index
func (uc *DeviceUseCase) GetByOracleIndex(oracleIndex string) (*entities.Device, error) {
	if oracleIndex == "" {
		return nil, errors.New("oracle index is required")
	}
	return uc.DeviceRepo.GetByOracleIndex(oracleIndex)
}

// Remove deletes a device. The device's oracle record set stays behind;
// removal does not cascade into the time series store.
func (uc *DeviceUseCase) Remove(account, name string) error {
	if account == "" || name == "" {
		return errors.New("account and device name are required")
	}
	return uc.DeviceRepo.Delete(account, name)
}

// RecordClaim books a successful mint against the device's account:
// claim count +1, received total +amount, last-claim stamped. Amount is
// in the token's smallest unit.
func (uc *DeviceUseCase) RecordClaim(account string, kind entities.CreditKind, amount int64) error {
	if account == "" {
		return errors.New("account is required")
	}
	if !kind.Valid() {
		return errors.New("unknown credit kind")
	}
	if amount <= 0 {
		return errors.New("claim amount must be positive")
	}
	return uc.DeviceRepo.RecordClaim(account, kind, amount)
}
