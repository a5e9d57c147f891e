package commandstructure

import (
	"testing"
)

func passThroughFactory(name string) CommandFactory {
	return func(params map[string]any) (Command, error) {
		return newMockCommand(name), nil
	}
}

func TestNewCommandRegistry(t *testing.T) {
	registry := NewCommandRegistry()
	if registry == nil {
		t.Fatal("Expected non-nil registry")
	}
	if registry.factories == nil {
		t.Fatal("Expected non-nil factories map")
	}
}

func TestCommandRegistry_Register(t *testing.T) {
	registry := NewCommandRegistry()

	if err := registry.Register("TestCommand", passThroughFactory("TestCommand")); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	if err := registry.Register("TestCommand", passThroughFactory("TestCommand")); err == nil {
		t.Error("Expected error for duplicate registration")
	}

	if err := registry.Register("", passThroughFactory("")); err == nil {
		t.Error("Expected error for empty name")
	}

	if err := registry.Register("NilFactory", nil); err == nil {
		t.Error("Expected error for nil factory")
	}
}

func TestCommandRegistry_Create(t *testing.T) {
	registry := NewCommandRegistry()
	if err := registry.Register("TestCommand", passThroughFactory("TestCommand")); err != nil {
		t.Fatalf("Failed to register command: %v", err)
	}

	command, err := registry.Create("TestCommand", nil)
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if command == nil {
		t.Fatal("Expected non-nil command")
	}
	if command.Name() != "TestCommand" {
		t.Errorf("Expected command name 'TestCommand', got '%s'", command.Name())
	}

	if _, err = registry.Create("UnknownCommand", nil); err == nil {
		t.Error("Expected error for unknown command")
	}
}

func TestCommandRegistry_IsRegistered(t *testing.T) {
	registry := NewCommandRegistry()
	if err := registry.Register("TestCommand", passThroughFactory("TestCommand")); err != nil {
		t.Fatalf("Failed to register command: %v", err)
	}

	if !registry.IsRegistered("TestCommand") {
		t.Error("Expected TestCommand to be registered")
	}
	if registry.IsRegistered("UnknownCommand") {
		t.Error("Expected UnknownCommand to not be registered")
	}
}

func TestCommandRegistry_GetRegisteredNames(t *testing.T) {
	registry := NewCommandRegistry()

	names := registry.GetRegisteredNames()
	if len(names) != 0 {
		t.Errorf("Expected 0 registered names, got %d", len(names))
	}

	if err := registry.Register("Command2", passThroughFactory("Command2")); err != nil {
		t.Fatalf("Failed to register Command2: %v", err)
	}
	if err := registry.Register("Command1", passThroughFactory("Command1")); err != nil {
		t.Fatalf("Failed to register Command1: %v", err)
	}

	names = registry.GetRegisteredNames()
	if len(names) != 2 {
		t.Fatalf("Expected 2 registered names, got %d", len(names))
	}
	if names[0] != "Command1" || names[1] != "Command2" {
		t.Errorf("Expected sorted names [Command1 Command2], got %v", names)
	}
}
