package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/EducacionBuga/educacion-buga-sub001/internal/config"
	"github.com/EducacionBuga/educacion-buga-sub001/internal/server"
)

var (
	port    = flag.Int("port", 0, "puerto del servicio (config.toml tiene prioridad)")
	devMode = flag.Bool("dev", false, "modo desarrollo")
	dataDir = flag.String("dataDir", "", "directorio de datos (sobrescribe la configuración)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  Portal Administrativo - Secretaría de Educación")
	fmt.Println("==========================================")

	// Cargar configuración
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("carga de configuración fallida, usando valores por defecto: %v", err)
		cfg = config.DefaultConfig()
	}

	// Los argumentos de línea de comandos sobrescriben la configuración
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	// Asegurar el directorio de datos
	if dir, err := config.EnsureDataDir(cfg); err != nil {
		log.Printf("creación del directorio de datos fallida: %v", err)
	} else {
		fmt.Printf("Directorio de datos: %s\n", dir)
	}

	srv := server.NewServer(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	go func() {
		fmt.Printf("Servicio escuchando en el puerto %d ...\n", cfg.Server.Port)
		if err := srv.Run(ctx, addr); err != nil {
			log.Fatalf("arranque del servicio fallido: %v", err)
		}
	}()

	fmt.Println("\nCtrl+C para detener el servicio...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nDeteniendo el servicio...")
	cancel()
	if err := srv.Close(); err != nil {
		log.Printf("cierre con errores: %v", err)
	}
}
